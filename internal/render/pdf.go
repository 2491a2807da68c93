package render

import (
	"bytes"
	"compress/zlib"
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"
)

// Finished page rasters are framed into a minimal PDF by hand: one full-page
// DeviceRGB image XObject per page. All drawing happens upstream in gg; this
// file only writes the container.

const (
	pdfPointsWidth  = 595.28 // A4
	pdfPointsHeight = 841.89
)

func flattenRGB(img *image.RGBA) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, 0, w*h*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride : (y-b.Min.Y)*img.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			out = append(out, row[x], row[x+1], row[x+2])
		}
	}
	return out
}

func deflate(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writePDF frames page rasters into a single document. Page streams are
// compressed concurrently but assembled in order, so output stays
// deterministic for identical input.
func writePDF(ctx context.Context, pages []*image.RGBA) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages to write")
	}

	compressed := make([][]byte, len(pages))
	g, _ := errgroup.WithContext(ctx)
	for i := range pages {
		g.Go(func() error {
			data, err := deflate(flattenRGB(pages[i]))
			if err != nil {
				return fmt.Errorf("compress page %d: %w", i+1, err)
			}
			compressed[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Object numbering: 1 catalog, 2 page tree, then per page
	// (page, contents, image) triples.
	pageObj := func(i int) int { return 3 + i*3 }
	contentObj := func(i int) int { return 4 + i*3 }
	imageObj := func(i int) int { return 5 + i*3 }
	objCount := 2 + len(pages)*3

	objects := make([][]byte, 0, objCount)

	kids := &bytes.Buffer{}
	for i := range pages {
		if i > 0 {
			kids.WriteByte(' ')
		}
		fmt.Fprintf(kids, "%d 0 R", pageObj(i))
	}

	objects = append(objects, []byte("<< /Type /Catalog /Pages 2 0 R >>"))
	objects = append(objects, []byte(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids.String(), len(pages))))

	for i, img := range pages {
		w := img.Bounds().Dx()
		h := img.Bounds().Dy()

		objects = append(objects, []byte(fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f] /Contents %d 0 R /Resources << /XObject << /Im%d %d 0 R >> >> >>",
			pdfPointsWidth, pdfPointsHeight, contentObj(i), i, imageObj(i))))

		content := fmt.Sprintf("q\n%.2f 0 0 %.2f 0 0 cm\n/Im%d Do\nQ\n", pdfPointsWidth, pdfPointsHeight, i)
		objects = append(objects, streamObject([]byte(content), ""))

		imgDict := fmt.Sprintf(
			"/Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /FlateDecode",
			w, h)
		objects = append(objects, streamObject(compressed[i], imgDict))
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")

	offsets := make([]int, objCount+1)
	for i, body := range objects {
		num := i + 1
		offsets[num] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n", num)
		out.Write(body)
		out.WriteString("\nendobj\n")
	}

	xrefStart := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", objCount+1)
	out.WriteString("0000000000 65535 f \n")
	for num := 1; num <= objCount; num++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", objCount+1, xrefStart)

	return out.Bytes(), nil
}

func streamObject(stream []byte, extraDict string) []byte {
	var b bytes.Buffer
	if extraDict != "" {
		fmt.Fprintf(&b, "<< %s /Length %d >>\nstream\n", extraDict, len(stream))
	} else {
		fmt.Fprintf(&b, "<< /Length %d >>\nstream\n", len(stream))
	}
	b.Write(stream)
	b.WriteString("\nendstream")
	return b.Bytes()
}
