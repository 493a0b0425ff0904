package pdf

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"taskflow/internal/models"
)

// Generator: интерфейс (удобно мокать в тестах)
type Generator interface {
	StatsReport(w io.Writer, data StatsReportData) error
}

// ReportGenerator renders reports with gofpdf. Without FontPath the core
// Helvetica font is used and text is translated to cp1252.
type ReportGenerator struct {
	FontPath string // путь до TTF, например "assets/fonts/DejaVuSans.ttf"
	fontName string
}

type StatsReportData struct {
	Worker      string // "" = все исполнители
	Period      string
	Stats       models.Stats
	Tasks       []models.Task
	GeneratedAt time.Time
}

func NewReportGenerator(fontPath string) *ReportGenerator {
	g := &ReportGenerator{FontPath: fontPath, fontName: "Helvetica"}
	if fontPath != "" {
		g.fontName = "DejaVu"
	}
	return g
}

func (g *ReportGenerator) StatsReport(w io.Writer, data StatsReportData) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Task statistics", false)
	pdf.SetAuthor("TaskFlow", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	tr := g.addFont(pdf)
	pdf.AddPage()

	// ===== Заголовок
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "TASK STATISTICS", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 7, "Generated "+data.GeneratedAt.Format("02.01.2006 15:04"), "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	g.sectionTitle(pdf, "Scope")
	worker := data.Worker
	if worker == "" {
		worker = "all workers"
	}
	period := data.Period
	if period == "" {
		period = "all time"
	}
	g.kvLine(pdf, "Worker", tr(worker))
	g.kvLine(pdf, "Period", tr(period))
	pdf.Ln(2)
	g.hr(pdf)

	s := data.Stats
	g.sectionTitle(pdf, "Summary")
	g.kvLine(pdf, "Total", fmt.Sprintf("%d", s.Total))
	g.kvLine(pdf, "Completed", fmt.Sprintf("%d", s.Completed))
	g.kvLine(pdf, "Approved", fmt.Sprintf("%d", s.Approved))
	g.kvLine(pdf, "Pending", fmt.Sprintf("%d", s.Pending))
	g.kvLine(pdf, "Errors", fmt.Sprintf("%d", s.Errors))
	g.kvLine(pdf, "Success rate", fmt.Sprintf("%d%%", s.SuccessRate))
	pdf.Ln(2)
	g.hr(pdf)

	if len(data.Tasks) > 0 {
		g.sectionTitle(pdf, "Tasks")
		g.taskTable(pdf, tr, data.Tasks)
	}

	// ===== Нумерация страниц
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	return pdf.Output(w)
}

// StatsReportBytes is StatsReport into memory.
func (g *ReportGenerator) StatsReportBytes(data StatsReportData) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.StatsReport(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *ReportGenerator) taskTable(pdf *gofpdf.Fpdf, tr func(string) string, tasks []models.Task) {
	widths := []float64{80, 30, 25, 35}
	header := []string{"Title", "Status", "Errors", "Created"}

	pdf.SetFont(g.fontName, "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(g.fontName, "", 10)
	for _, t := range tasks {
		title := tr(t.Title)
		// длинные названия обрезаем под ширину колонки
		for r := []rune(t.Title); len(r) > 3 && pdf.GetStringWidth(title) > widths[0]-2; {
			r = r[:len(r)-1]
			title = tr(string(r) + "...")
		}
		pdf.CellFormat(widths[0], 6, title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, string(t.Status), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%d", len(t.Errors)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, t.CreatedAt.Format("02.01.2006"), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
}

// ===== helpers =====

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

// addFont registers the TTF if configured and returns the text translator
// matching the chosen font.
func (g *ReportGenerator) addFont(pdf *gofpdf.Fpdf) func(string) string {
	if g.FontPath == "" {
		return pdf.UnicodeTranslatorFromDescriptor("")
	}
	// AddUTF8Font принимает путь до TTF
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
	return func(s string) string { return s }
}
