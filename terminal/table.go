package terminal

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"ftpwriter/config"
	"ftpwriter/transfer"
)

// TableFormatter renders connection properties and transfer reports.
type TableFormatter struct {
	out io.Writer
}

// NewTableFormatter writes to out, or stdout when out is nil.
func NewTableFormatter(out io.Writer) *TableFormatter {
	if out == nil {
		out = os.Stdout
	}
	return &TableFormatter{out: out}
}

func (tf *TableFormatter) newTable(header ...string) *tablewriter.Table {
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	table := tablewriter.NewWriter(tf.out)
	table.Header(cells...)
	table.Options(
		tablewriter.WithRendition(tw.Rendition{Borders: tw.Border{Left: tw.Pending, Right: tw.Pending, Top: tw.Pending, Bottom: tw.Pending}}),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
	)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.MaxWidth = 0
		cfg.Header = tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		}
		cfg.Row = tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		}
	})
	return table
}

// FormatProperties renders the properties with the password redacted.
func (tf *TableFormatter) FormatProperties(p config.FTPProperties) error {
	r := p.Redacted()
	rows := [][]string{
		{"server", r.Server},
		{"port", strconv.Itoa(r.Port)},
		{"username", r.Username},
		{"password", r.Password},
		{"keep_alive_timeout", strconv.Itoa(r.KeepAliveTimeout) + "s"},
		{"auto_start", strconv.FormatBool(r.AutoStart)},
		{"connect_timeout", strconv.Itoa(r.ConnectTimeout) + "s"},
		{"disable_epsv", strconv.FormatBool(r.DisableEPSV)},
		{"local_root", r.LocalRoot},
	}

	table := tf.newTable("Property", "Value")
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// FormatReport renders one finished transfer.
func (tf *TableFormatter) FormatReport(r transfer.Report) error {
	table := tf.newTable("Operation", "Path", "Size", "Time", "Speed")
	if err := table.Append([]string{
		string(r.Operation),
		r.Path,
		transfer.FormatSize(r.Bytes),
		r.Elapsed.Round(time.Millisecond).String(),
		strconv.FormatFloat(r.Speed(), 'f', 2, 64) + " MB/s",
	}); err != nil {
		return err
	}
	return table.Render()
}
