package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/k3a/html2text"
	"github.com/ledongthuc/pdf"
)

// Extractor pulls plain text out of uploaded documents and URLs. Every
// supported filetype has a dedicated path; unsupported filetypes are an
// extraction error.
type Extractor struct {
	vision     *VisionService
	httpClient *http.Client
}

// NewExtractor creates a new extractor. The vision service handles the
// OCR path for image uploads.
func NewExtractor(vision *VisionService) *Extractor {
	return &Extractor{
		vision: vision,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Extract returns the plain text of a document. For filetype "url" the
// source is a URL; for everything else it is a local file path.
func (e *Extractor) Extract(ctx context.Context, filetype, source string) (string, error) {
	switch strings.ToLower(filetype) {
	case "pdf":
		return e.extractPDF(source)
	case "docx":
		return e.extractDOCX(source)
	case "csv":
		return e.extractCSV(source)
	case "txt", "text", "md":
		return e.extractPlain(source)
	case "png", "jpg", "jpeg", "image":
		return e.extractImage(ctx, source)
	case "url":
		return e.extractURL(ctx, source)
	default:
		return "", NewExtractionError(filetype, source, nil, "unsupported filetype: "+filetype)
	}
}

func (e *Extractor) extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", NewExtractionError("pdf", path, err, "")
	}
	defer f.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", NewExtractionError("pdf", path, err, "")
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, content); err != nil {
		return "", NewExtractionError("pdf", path, err, "")
	}

	return buf.String(), nil
}

// docx body XML, only the parts we read
type docxBody struct {
	Paragraphs []struct {
		Runs []struct {
			Text string `xml:"t"`
		} `xml:"r"`
	} `xml:"body>p"`
}

func (e *Extractor) extractDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", NewExtractionError("docx", path, err, "")
	}
	defer zr.Close()

	var docXML []byte
	for _, file := range zr.File {
		if file.Name == "word/document.xml" {
			rc, err := file.Open()
			if err != nil {
				return "", NewExtractionError("docx", path, err, "")
			}
			docXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", NewExtractionError("docx", path, err, "")
			}
			break
		}
	}
	if docXML == nil {
		return "", NewExtractionError("docx", path, nil, "word/document.xml not found in archive")
	}

	var body docxBody
	if err := xml.Unmarshal(docXML, &body); err != nil {
		return "", NewExtractionError("docx", path, err, "")
	}

	var sb strings.Builder
	for _, para := range body.Paragraphs {
		for _, run := range para.Runs {
			sb.WriteString(run.Text)
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (e *Extractor) extractCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", NewExtractionError("csv", path, err, "")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are fine

	var sb strings.Builder
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", NewExtractionError("csv", path, err, "")
		}
		sb.WriteString(strings.Join(record, ", "))
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (e *Extractor) extractPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", NewExtractionError("txt", path, err, "")
	}
	return string(data), nil
}

func (e *Extractor) extractImage(ctx context.Context, path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", NewExtractionError("image", path, err, "")
	}

	prepared, err := prepareForOCR(img)
	if err != nil {
		return "", NewExtractionError("image", path, err, "")
	}

	text, err := e.vision.RecognizeText(ctx, prepared)
	if err != nil {
		return "", NewExtractionError("image", path, err, "")
	}

	return text, nil
}

// prepareForOCR runs the preprocessing pipeline before OCR: grayscale,
// slight blur to remove noise, then an inverted binary threshold at 128 so
// text stands out as white on black.
func prepareForOCR(img image.Image) ([]byte, error) {
	gray := imaging.Grayscale(img)
	blurred := imaging.Blur(gray, 1.0)

	bounds := blurred.Bounds()
	thresholded := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.GrayModel.Convert(blurred.At(x, y)).(color.Gray)
			if c.Y < 128 {
				thresholded.SetGray(x, y, color.Gray{Y: 255})
			} else {
				thresholded.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, thresholded); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Extractor) extractURL(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return "", NewExtractionError("url", rawURL, err, "")
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", NewExtractionError("url", rawURL, err, "")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", NewExtractionError("url", rawURL, nil,
			fmt.Sprintf("fetch returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewExtractionError("url", rawURL, err, "")
	}

	return html2text.HTML2Text(string(body)), nil
}

// FiletypeFromFilename maps a filename extension to a supported filetype.
// Unknown extensions come back unchanged so the extractor can reject them
// with a useful message.
func FiletypeFromFilename(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}
