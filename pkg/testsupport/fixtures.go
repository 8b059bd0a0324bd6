// Package testsupport provides the shared test helpers: golden comparisons
// and a minimal fillable-PDF fixture builder so tests do not depend on
// binary files checked into the tree.
package testsupport

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// CompareGolden diffs two values, empty string meaning equal.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// WriteFixturePDF writes the form fixture into the test's temp dir and
// returns its path.
func WriteFixturePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.pdf")
	if err := os.WriteFile(path, BuildFormPDF(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// BuildFormPDF assembles a one-page fillable PDF covering every field kind
// the module handles: a text field, a two-widget checkbox group, a radio
// group, a combo box with export/display option pairs, and a multi-select
// list box. Widget order on the page defines the checkbox widget indices.
func BuildFormPDF() []byte {
	b := newPDFBuilder()

	b.obj(1, `<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [6 0 R 7 0 R 8 0 R 13 0 R 11 0 R 14 0 R] /DA (/Helv 0 Tf 0 g) /DR << /Font << /Helv 4 0 R >> >> >> >>`)
	b.obj(2, `<< /Type /Pages /Kids [3 0 R] /Count 1 >>`)
	b.obj(3, `<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /Helv 4 0 R >> >> /Contents 5 0 R /Annots [6 0 R 7 0 R 8 0 R 9 0 R 10 0 R 11 0 R 14 0 R] >>`)
	b.obj(4, `<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>`)
	b.stream(5, "", `BT /Helv 12 Tf 72 730 Td (Intake) Tj ET`)
	b.obj(6, `<< /Type /Annot /Subtype /Widget /FT /Tx /T (Name) /Rect [72 650 300 670] /F 4 /DA (/Helv 0 Tf 0 g) >>`)
	b.obj(7, `<< /Type /Annot /Subtype /Widget /FT /Btn /T (Agree) /Rect [72 620 86 634] /F 4 /AS /Off /AP << /N << /On 12 0 R /Off 12 0 R >> >> >>`)
	b.obj(8, `<< /Type /Annot /Subtype /Widget /FT /Btn /T (Agree) /Rect [72 600 86 614] /F 4 /AS /Off /AP << /N << /On 12 0 R /Off 12 0 R >> >> >>`)
	b.obj(9, `<< /Type /Annot /Subtype /Widget /Parent 13 0 R /Rect [72 570 86 584] /F 4 /AS /Off /AP << /N << /Red 12 0 R /Off 12 0 R >> >> >>`)
	b.obj(10, `<< /Type /Annot /Subtype /Widget /Parent 13 0 R /Rect [100 570 114 584] /F 4 /AS /Off /AP << /N << /Blue 12 0 R /Off 12 0 R >> >> >>`)
	b.obj(11, `<< /Type /Annot /Subtype /Widget /FT /Ch /Ff 131072 /T (Country) /Rect [72 540 300 560] /F 4 /Opt [[(US) (United States)] [(CA) (Canada)]] >>`)
	b.stream(12, `/Type /XObject /Subtype /Form /BBox [0 0 1 1]`, ``)
	b.obj(13, `<< /FT /Btn /Ff 32768 /T (Color) /V /Off /Kids [9 0 R 10 0 R] >>`)
	b.obj(14, `<< /Type /Annot /Subtype /Widget /FT /Ch /Ff 2097152 /T (Languages) /Rect [72 480 300 530] /F 4 /Opt [(English) (French) (German)] >>`)

	return b.finish(1)
}

// pdfBuilder emits a classic uncompressed PDF with a computed xref table.
type pdfBuilder struct {
	buf     bytes.Buffer
	offsets map[int]int
	max     int
}

func newPDFBuilder() *pdfBuilder {
	b := &pdfBuilder{offsets: map[int]int{}}
	b.buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	return b
}

func (b *pdfBuilder) obj(num int, body string) {
	b.offsets[num] = b.buf.Len()
	fmt.Fprintf(&b.buf, "%d 0 obj\n%s\nendobj\n", num, body)
	if num > b.max {
		b.max = num
	}
}

func (b *pdfBuilder) stream(num int, extraDict, content string) {
	dict := fmt.Sprintf("<< /Length %d >>", len(content))
	if extraDict != "" {
		dict = fmt.Sprintf("<< %s /Length %d >>", extraDict, len(content))
	}
	b.obj(num, fmt.Sprintf("%s\nstream\n%s\nendstream", dict, content))
}

func (b *pdfBuilder) finish(root int) []byte {
	start := b.buf.Len()
	fmt.Fprintf(&b.buf, "xref\n0 %d\n", b.max+1)
	b.buf.WriteString("0000000000 65535 f\r\n")
	for i := 1; i <= b.max; i++ {
		fmt.Fprintf(&b.buf, "%010d %05d n\r\n", b.offsets[i], 0)
	}
	fmt.Fprintf(&b.buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", b.max+1, root, start)
	return b.buf.Bytes()
}
