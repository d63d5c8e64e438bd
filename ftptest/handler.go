package ftptest

import "net"

// SessionInterface is what command handlers need from a control session.
type SessionInterface interface {
	SendResponse(code int, message string)
	SendMultiline(code int, first string, lines []string, last string)
	LogPrintf(format string, args ...any)

	IsAuthenticated() bool
	SetPendingUser(name string)
	Login(password string) bool

	GetCurrentDir() string
	SetCurrentDir(dir string)
	ResolvePath(path string) string

	ListenPassive() (*net.TCPAddr, error)
	OpenDataConnection() (net.Conn, error)
	CloseDataConnection()

	Server() *Server
}

// CommandHandler executes FTP commands against a session.
type CommandHandler struct {
	session SessionInterface
}

// NewCommandHandler creates a new command handler with session dependency injection
func NewCommandHandler(session SessionInterface) *CommandHandler {
	return &CommandHandler{session: session}
}

// HandleCommand routes a raw command line to its handler.
func (h *CommandHandler) HandleCommand(line string) {
	cmd, args := splitCommand(line)

	switch cmd {
	// Login
	case "USER":
		h.HandleUSER(args)
	case "PASS":
		h.HandlePASS(args)

	// Basic system commands
	case "SYST":
		h.session.SendResponse(215, "UNIX Type: L8")
	case "FEAT":
		h.HandleFEAT()
	case "OPTS":
		h.HandleOPTS(args)
	case "TYPE":
		h.HandleTYPE(args)
	case "NOOP":
		h.session.SendResponse(200, "NOOP command successful")

	// Directory commands
	case "PWD", "XPWD":
		h.HandlePWD()
	case "CWD", "XCWD":
		h.HandleCWD(args)
	case "MKD", "XMKD":
		h.HandleMKD(args)

	// Data connection commands
	case "PASV":
		h.HandlePASV()
	case "EPSV":
		h.HandleEPSV(args)

	// File transfer commands
	case "RETR":
		h.HandleRETR(args)
	case "STOR":
		h.HandleSTOR(args)
	case "APPE":
		h.HandleAPPE(args)

	// File management commands
	case "SIZE":
		h.HandleSIZE(args)
	case "DELE":
		h.HandleDELE(args)

	default:
		h.session.SendResponse(502, "Command not implemented")
	}
}
