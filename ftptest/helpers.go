package ftptest

import "os"

func (h *CommandHandler) withAuth(handler func()) {
	if !h.session.IsAuthenticated() {
		h.session.SendResponse(530, "Not logged in")
		return
	}
	handler()
}

func (h *CommandHandler) withValidParam(param string, handler func()) {
	if param == "" {
		h.session.SendResponse(501, "Syntax error in parameters")
		return
	}
	handler()
}

func (h *CommandHandler) withExistingFile(name string, handler func(filePath string, info os.FileInfo)) {
	filePath := h.session.ResolvePath(name)

	info, err := h.session.Server().Fs().Stat(filePath)
	if err != nil {
		h.session.SendResponse(550, "File not found")
		return
	}
	if info.IsDir() {
		h.session.SendResponse(550, "Is a directory")
		return
	}

	handler(filePath, info)
}
