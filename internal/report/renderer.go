// Package report renders the person roster to a PDF document using maroto/v2.
// The renderer writes the file under the configured export directory and
// returns its path; reading the bytes back is the caller's concern.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"registry_backend/internal/people/repository"

	"github.com/google/uuid"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	colorPrimary   = &props.Color{Red: 17, Green: 24, Blue: 39}    // near-black
	colorSecondary = &props.Color{Red: 107, Green: 114, Blue: 128} // gray-500
	colorTableHead = &props.Color{Red: 241, Green: 245, Blue: 249} // slate-100
	colorTableAlt  = &props.Color{Red: 249, Green: 250, Blue: 251} // gray-50
	colorBorder    = &props.Color{Red: 226, Green: 232, Blue: 240} // slate-200
	colorInactive  = &props.Color{Red: 220, Green: 38, Blue: 38}   // red-600
	colorActive    = &props.Color{Red: 22, Green: 163, Blue: 74}   // green-600
)

// Renderer produces roster PDF files under exportDir.
type Renderer struct {
	exportDir string
}

// NewRenderer creates a roster renderer. The export directory is created on
// first use if it does not exist.
func NewRenderer(exportDir string) *Renderer {
	return &Renderer{exportDir: exportDir}
}

// Export renders the roster to a PDF file and returns its path.
func (r *Renderer) Export(_ context.Context, people []repository.Person) (string, error) {
	if err := os.MkdirAll(r.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	cfg := config.NewBuilder().
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		Build()

	m := maroto.New(cfg)

	m.AddRows(buildHeader(len(people))...)
	m.AddRows(row.New(1).WithStyle(&props.Cell{
		BorderType:  border.Bottom,
		BorderColor: colorBorder,
	}))
	m.AddRows(row.New(4)) // spacer

	m.AddRows(buildTableHead())
	for i, p := range people {
		m.AddRows(buildTableRow(p, i%2 == 1))
	}

	document, err := m.Generate()
	if err != nil {
		return "", fmt.Errorf("generate roster pdf: %w", err)
	}

	path := filepath.Join(r.exportDir, fmt.Sprintf("roster_%s.pdf", uuid.New().String()))
	if err := document.Save(path); err != nil {
		return "", fmt.Errorf("save roster pdf: %w", err)
	}

	return path, nil
}

func buildHeader(total int) []core.Row {
	return []core.Row{
		row.New(10).Add(
			text.NewCol(8, "People Roster", props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Color: colorPrimary,
			}),
			text.NewCol(4, time.Now().Format("2006-01-02 15:04"), props.Text{
				Size:  9,
				Align: align.Right,
				Color: colorSecondary,
			}),
		),
		row.New(6).Add(
			text.NewCol(12, fmt.Sprintf("%d registrants", total), props.Text{
				Size:  9,
				Color: colorSecondary,
			}),
		),
	}
}

func buildTableHead() core.Row {
	return row.New(7).WithStyle(&props.Cell{BackgroundColor: colorTableHead}).Add(
		text.NewCol(1, "ID", headProps()),
		text.NewCol(3, "Name", headProps()),
		text.NewCol(2, "Document", headProps()),
		text.NewCol(3, "Address", headProps()),
		text.NewCol(2, "Phone", headProps()),
		text.NewCol(1, "Active", headProps()),
	)
}

func buildTableRow(p repository.Person, alt bool) core.Row {
	cell := &props.Cell{}
	if alt {
		cell.BackgroundColor = colorTableAlt
	}

	statusColor := colorActive
	if !p.Active {
		statusColor = colorInactive
	}

	return row.New(6).WithStyle(cell).Add(
		text.NewCol(1, strconv.FormatInt(p.ID, 10), cellProps(colorSecondary)),
		text.NewCol(3, p.Name, cellProps(colorPrimary)),
		text.NewCol(2, p.Document, cellProps(colorPrimary)),
		text.NewCol(3, p.Address, cellProps(colorSecondary)),
		text.NewCol(2, p.Phone, cellProps(colorSecondary)),
		text.NewCol(1, strconv.FormatBool(p.Active), cellProps(statusColor)),
	)
}

func headProps() props.Text {
	return props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Color: colorPrimary,
		Top:   1.5,
	}
}

func cellProps(color *props.Color) props.Text {
	return props.Text{
		Size:  8,
		Color: color,
		Top:   1,
	}
}
