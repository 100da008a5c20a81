package printing

// PaperSize represents the paper size of a generated document
type PaperSize string

const (
	PaperSizeA4     PaperSize = "A4"     // 210mm x 297mm
	PaperSizeLetter PaperSize = "LETTER" // 215.9mm x 279.4mm
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeLetter:
		return true
	}
	return false
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the portrait paper dimensions in millimeters (width, height)
func (p PaperSize) Dimensions() (width, height float64) {
	switch p {
	case PaperSizeLetter:
		return 215.9, 279.4
	default:
		return 210, 297
	}
}

// ImageFormat is the encoding of an embeddable image payload
type ImageFormat string

const (
	ImageFormatJPEG ImageFormat = "JPEG"
	ImageFormatPNG  ImageFormat = "PNG"
)

// IsValid checks if the ImageFormat is a valid value
func (f ImageFormat) IsValid() bool {
	return f == ImageFormatJPEG || f == ImageFormatPNG
}

// MIMEType returns the media type of the format
func (f ImageFormat) MIMEType() string {
	if f == ImageFormatPNG {
		return "image/png"
	}
	return "image/jpeg"
}
