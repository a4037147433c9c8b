package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/seamcarve/pkg/errors"
	"github.com/matzehuels/seamcarve/pkg/imageio"
)

func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <image>...",
		Short: "Print the format and dimensions of images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := inspectFiles(args)
			if err != nil {
				return err
			}
			if len(rows) == 1 {
				r := rows[0]
				printKeyValue("File", r[0])
				printKeyValue("Format", r[1])
				printKeyValue("Size", r[2]+"×"+r[3])
				printKeyValue("Bytes", r[4])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), infoTable(rows))
			return nil
		},
	}
}

// inspectFiles returns one row per path: file, format, width, height, bytes.
func inspectFiles(paths []string) ([][]string, error) {
	rows := make([][]string, 0, len(paths))
	for _, path := range paths {
		if err := errs.ValidatePath(path); err != nil {
			return nil, err
		}
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "no such file: %s", path)
		}
		if err != nil {
			return nil, err
		}
		info, err := imageio.Inspect(f)
		st, statErr := f.Stat()
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		size := "?"
		if statErr == nil {
			size = strconv.FormatInt(st.Size(), 10)
		}
		rows = append(rows, []string{
			path, info.Format, strconv.Itoa(info.Width), strconv.Itoa(info.Height), size,
		})
	}
	return rows, nil
}

func infoTable(rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("File", "Format", "Width", "Height", "Bytes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col >= 2 {
				return StyleHighlight.PaddingLeft(1).PaddingRight(1)
			}
			return lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
		}).
		Render()
}
