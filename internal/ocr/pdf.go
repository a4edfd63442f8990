package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/followups-tracker/constants"
)

// extractPDF reads the text layer page by page and OCRs only the pages that
// have none. If the PDF cannot be parsed, pdftotext and then a full
// rasterize+OCR pass are tried.
func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	res := ExtractionResult{Source: constants.SourcePDF, Language: e.cfg.TesseractLang}

	pages, err := readPDFPages(path, e.cfg.MaxPages)
	if err != nil {
		e.logger.Warn("pdf text layer unreadable, falling back to pdftotext", "path", path, "error", err)
		res.Warnings = append(res.Warnings, err.Error())
		return e.extractPDFFallback(ctx, path, res)
	}

	res.Pages = len(pages)
	for i, txt := range pages {
		if strings.TrimSpace(txt) != "" {
			continue
		}
		pageNo := i + 1
		ocrTxt, err := e.ocrPDFPage(ctx, path, pageNo)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: %v", pageNo, err))
			continue
		}
		pages[i] = ocrTxt
		res.OCRPages = append(res.OCRPages, pageNo)
	}

	switch {
	case len(res.OCRPages) == 0:
		res.Method = MethodPDFText
	case len(res.OCRPages) == len(pages):
		res.Method = MethodPDFOCR
	default:
		res.Method = MethodPDFMixed
	}
	res.Text = Normalize(strings.Join(pages, "\n"))
	return res, nil
}

// readPDFPages returns the plain text of each page, "" for pages without content.
func readPDFPages(path string, maxPages int) (pages []string, err error) {
	// the parser panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("parse pdf: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	n := r.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		txt, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, txt)
	}
	return pages, nil
}

func (e *Extractor) extractPDFFallback(ctx context.Context, path string, res ExtractionResult) (ExtractionResult, error) {
	txt, pages, warns, err := e.pdfToText(ctx, path)
	res.Warnings = append(res.Warnings, warns...)
	if err == nil && strings.TrimSpace(txt) != "" {
		res.Text = Normalize(txt)
		res.Pages = pages
		res.Method = MethodPdftotext
		return res, nil
	}

	txt, pages, warns, err = e.pdfToOCR(ctx, path)
	res.Warnings = append(res.Warnings, warns...)
	if err != nil {
		return res, err
	}
	res.Text = Normalize(txt)
	res.Pages = pages
	res.Method = MethodPDFOCR
	for i := 1; i <= pages; i++ {
		res.OCRPages = append(res.OCRPages, i)
	}
	return res, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}
	text = string(out)
	// A form-feed \f is used as page separator by default
	pages = 1 + strings.Count(strings.TrimRight(text, "\f\n"), "\f")
	return text, pages, nil, nil
}

// ocrPDFPage rasterizes a single page and runs tesseract on it.
func (e *Extractor) ocrPDFPage(ctx context.Context, path string, page int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "ft-page-*")
	if err != nil {
		return "", err
	}
	defer e.removeTemp(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	n := strconv.Itoa(page)
	// pdftoppm -r 300 -png -f N -l N <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-r", strconv.Itoa(e.cfg.DPI), "-png", "-f", n, "-l", n, path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w: %s", err, strings.TrimSpace(string(errb)))
	}
	images, _ := filepath.Glob(prefix + "-*.png")
	if len(images) == 0 {
		return "", fmt.Errorf("pdftoppm produced no image for page %d", page)
	}
	txt, _, err := e.tesseractOCR(ctx, images[0])
	return txt, err
}

func (e *Extractor) pdfToOCR(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	tmpDir, err := os.MkdirTemp("", "ft-pp-*")
	if err != nil {
		return "", 0, nil, err
	}
	defer e.removeTemp(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	args := []string{"-r", strconv.Itoa(e.cfg.DPI), "-png"}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(e.cfg.MaxPages))
	}
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, append(args, path, prefix)...)
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", 0, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	var b strings.Builder
	for _, img := range matches {
		txt, w, err := e.tesseractOCR(ctx, img)
		warnings = append(warnings, w...)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(txt)
	}
	return b.String(), len(matches), warnings, nil
}

func (e *Extractor) removeTemp(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		e.logger.Warn("failed to remove temp dir", "dir", dir, "error", err)
	}
}
