package ftptest

import (
	"fmt"
	"strings"
)

// Login commands

func (h *CommandHandler) HandleUSER(name string) {
	h.withValidParam(name, func() {
		h.session.SetPendingUser(name)
		h.session.SendResponse(331, "User name okay, need password")
	})
}

func (h *CommandHandler) HandlePASS(password string) {
	if !h.session.Login(password) {
		h.session.SendResponse(530, "Login incorrect")
		return
	}
	h.session.SendResponse(230, "User logged in, proceed")
}

// Basic system commands

func (h *CommandHandler) HandleFEAT() {
	h.session.SendMultiline(211, "Features:", []string{"SIZE", "EPSV", "PASV", "UTF8"}, "End")
}

func (h *CommandHandler) HandleOPTS(args string) {
	switch strings.ToUpper(args) {
	case "UTF8 ON", "UTF8 OFF":
		h.session.SendResponse(200, "UTF8 mode changed")
	case "":
		h.session.SendResponse(501, "OPTS command requires arguments")
	default:
		h.session.SendResponse(501, "Unsupported option")
	}
}

// HandleTYPE accepts ASCII and binary; data is always sent as stored.
func (h *CommandHandler) HandleTYPE(typeStr string) {
	h.withAuth(func() {
		switch strings.ToUpper(typeStr) {
		case "A", "A N":
			h.session.SendResponse(200, "Switching to ASCII mode")
		case "I", "L 8":
			h.session.SendResponse(200, "Switching to Binary mode")
		default:
			h.session.SendResponse(504, "Command not implemented for that parameter")
		}
	})
}

// Directory commands

func (h *CommandHandler) HandlePWD() {
	h.withAuth(func() {
		h.session.SendResponse(257, fmt.Sprintf(`"%s" is the current directory`, h.session.GetCurrentDir()))
	})
}

func (h *CommandHandler) HandleCWD(dir string) {
	h.withAuth(func() {
		h.withValidParam(dir, func() {
			dirPath := h.session.ResolvePath(dir)
			info, err := h.session.Server().Fs().Stat(dirPath)
			if err != nil || !info.IsDir() {
				h.session.SendResponse(550, "Directory not found")
				return
			}
			h.session.SetCurrentDir(dirPath)
			h.session.SendResponse(250, fmt.Sprintf(`CWD command successful. "%s" is current directory`, dirPath))
		})
	})
}

func (h *CommandHandler) HandleMKD(dir string) {
	h.withAuth(func() {
		h.withValidParam(dir, func() {
			dirPath := h.session.ResolvePath(dir)
			if err := h.session.Server().Fs().MkdirAll(dirPath, 0o755); err != nil {
				h.session.SendResponse(550, fmt.Sprintf("Failed to create directory: %v", err))
				return
			}
			h.session.SendResponse(257, fmt.Sprintf(`"%s" directory created`, dirPath))
		})
	})
}

// Data connection commands

func (h *CommandHandler) HandlePASV() {
	h.withAuth(func() {
		addr, err := h.session.ListenPassive()
		if err != nil {
			h.session.SendResponse(425, "Can't open data connection")
			return
		}
		ip := addr.IP.To4()
		if ip == nil {
			h.session.SendResponse(522, "PASV requires IPv4, use EPSV")
			return
		}
		h.session.SendResponse(227, fmt.Sprintf("Entering Passive Mode (%d,%d,%d,%d,%d,%d)",
			ip[0], ip[1], ip[2], ip[3], addr.Port/256, addr.Port%256))
	})
}

func (h *CommandHandler) HandleEPSV(_ string) {
	h.withAuth(func() {
		addr, err := h.session.ListenPassive()
		if err != nil {
			h.session.SendResponse(425, "Can't open data connection")
			return
		}
		h.session.SendResponse(229, fmt.Sprintf("Entering Extended Passive Mode (|||%d|)", addr.Port))
	})
}
