package ftptest

import (
	"fmt"
	"os"
	"path"
)

// HandleRETR sends a file over the data connection.
func (h *CommandHandler) HandleRETR(name string) {
	h.withAuth(func() {
		h.withValidParam(name, func() {
			filePath := h.session.ResolvePath(name)
			fs := h.session.Server().Fs()

			info, err := fs.Stat(filePath)
			if err != nil || info.IsDir() {
				h.session.CloseDataConnection()
				h.session.SendResponse(550, "File not found")
				return
			}

			file, err := fs.Open(filePath)
			if err != nil {
				h.session.CloseDataConnection()
				h.session.SendResponse(550, fmt.Sprintf("Failed to open file: %v", err))
				return
			}
			defer file.Close()

			dataConn, err := h.session.OpenDataConnection()
			if err != nil {
				h.session.SendResponse(425, "Can't open data connection")
				return
			}

			h.session.SendResponse(150, fmt.Sprintf("Opening data connection for %s (%d bytes)", name, info.Size()))
			err = copyStream(dataConn, file)
			h.session.CloseDataConnection()
			if err != nil {
				h.session.SendResponse(426, "Connection closed; transfer aborted")
				return
			}
			h.session.SendResponse(226, "Transfer complete")
		})
	})
}

// HandleSTOR replaces a file with the data connection contents.
func (h *CommandHandler) HandleSTOR(name string) {
	h.receive(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, "Transfer complete")
}

// HandleAPPE appends the data connection contents to a file, creating it if needed.
func (h *CommandHandler) HandleAPPE(name string) {
	h.receive(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, "Append complete")
}

func (h *CommandHandler) receive(name string, flag int, done string) {
	h.withAuth(func() {
		h.withValidParam(name, func() {
			filePath := h.session.ResolvePath(name)
			fs := h.session.Server().Fs()

			// the parent must exist; afero would create it silently
			dir, err := fs.Stat(path.Dir(filePath))
			if err != nil || !dir.IsDir() {
				h.session.CloseDataConnection()
				h.session.SendResponse(553, "Requested action not taken. Directory does not exist")
				return
			}
			if info, err := fs.Stat(filePath); err == nil && info.IsDir() {
				h.session.CloseDataConnection()
				h.session.SendResponse(553, "Requested action not taken. Is a directory")
				return
			}

			file, err := fs.OpenFile(filePath, flag, 0o644)
			if err != nil {
				h.session.CloseDataConnection()
				h.session.SendResponse(550, fmt.Sprintf("Failed to open file: %v", err))
				return
			}
			defer file.Close()

			dataConn, err := h.session.OpenDataConnection()
			if err != nil {
				h.session.SendResponse(425, "Can't open data connection")
				return
			}

			h.session.SendResponse(150, fmt.Sprintf("Opening data connection for %s", name))
			err = copyStream(file, dataConn)
			h.session.CloseDataConnection()
			if err != nil {
				h.session.SendResponse(426, "Connection closed; transfer aborted")
				return
			}
			h.session.LogPrintf("stored %s", filePath)
			h.session.SendResponse(226, done)
		})
	})
}

func (h *CommandHandler) HandleSIZE(name string) {
	h.withAuth(func() {
		h.withValidParam(name, func() {
			h.withExistingFile(name, func(_ string, info os.FileInfo) {
				h.session.SendResponse(213, fmt.Sprintf("%d", info.Size()))
			})
		})
	})
}

func (h *CommandHandler) HandleDELE(name string) {
	h.withAuth(func() {
		h.withValidParam(name, func() {
			h.withExistingFile(name, func(filePath string, _ os.FileInfo) {
				if err := h.session.Server().Fs().Remove(filePath); err != nil {
					h.session.SendResponse(550, fmt.Sprintf("Failed to delete file: %v", err))
					return
				}
				h.session.SendResponse(250, "File deleted")
			})
		})
	})
}
