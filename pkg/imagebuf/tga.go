package imagebuf

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// TGA image types.
const (
	tgaTrueColor    = 2
	tgaGrayscale    = 3
	tgaRLETrueColor = 10
	tgaRLEGrayscale = 11
)

const (
	tgaOriginTop  = 0x20
	tgaHeaderSize = 18
)

var tgaFooter = []byte("\x00\x00\x00\x00\x00\x00\x00\x00TRUEVISION-XFILE.\x00")

var errTGAData = errors.New("malformed tga data")

type tgaHeader struct {
	IDLength        uint8
	ColorMapType    uint8
	ImageType       uint8
	ColorMapOrigin  uint16
	ColorMapLength  uint16
	ColorMapDepth   uint8
	XOrigin         uint16
	YOrigin         uint16
	Width           uint16
	Height          uint16
	BitsPerPixel    uint8
	ImageDescriptor uint8
}

// EncodeTGA writes m as an uncompressed TGA with a top-left origin, so rows
// appear in the file in the order they are stored.
func EncodeTGA(w io.Writer, m *Image) error {
	if m.Width > 0xffff || m.Height > 0xffff {
		return fmt.Errorf("tga: image %dx%d too large", m.Width, m.Height)
	}

	h := tgaHeader{
		ImageType:       tgaTrueColor,
		Width:           uint16(m.Width),
		Height:          uint16(m.Height),
		BitsPerPixel:    uint8(m.Format) * 8,
		ImageDescriptor: tgaOriginTop,
	}
	switch m.Format {
	case Grayscale:
		h.ImageType = tgaGrayscale
	case RGBA:
		h.ImageDescriptor |= 8 // alpha bits
	case RGB:
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, m.Format)
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
		return err
	}

	bpp := int(m.Format)
	px := make([]uint8, bpp)
	for i := 0; i < len(m.Pix); i += bpp {
		copy(px, m.Pix[i:i+bpp])
		if bpp >= 3 {
			px[0], px[2] = px[2], px[0] // RGB -> BGR
		}
		if _, err := bw.Write(px); err != nil {
			return err
		}
	}

	if _, err := bw.Write(tgaFooter); err != nil {
		return err
	}
	return bw.Flush()
}

// DecodeTGA reads an uncompressed or run-length encoded truecolor or
// grayscale TGA. The result has row 0 at the top of the picture.
func DecodeTGA(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	var h tgaHeader
	if err := binary.Read(br, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("tga header: %w", err)
	}
	if h.ColorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped tga", ErrUnsupportedFormat)
	}

	var format Format
	switch h.BitsPerPixel {
	case 8:
		format = Grayscale
	case 24:
		format = RGB
	case 32:
		format = RGBA
	default:
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedFormat, h.BitsPerPixel)
	}

	rle := false
	switch h.ImageType {
	case tgaTrueColor, tgaGrayscale:
	case tgaRLETrueColor, tgaRLEGrayscale:
		rle = true
	default:
		return nil, fmt.Errorf("%w: tga image type %d", ErrUnsupportedFormat, h.ImageType)
	}

	m, err := New(int(h.Width), int(h.Height), format)
	if err != nil {
		return nil, fmt.Errorf("tga: %w", err)
	}

	if _, err := br.Discard(int(h.IDLength)); err != nil {
		return nil, fmt.Errorf("tga id: %w", err)
	}

	if rle {
		err = readRLE(br, m.Pix, int(format))
	} else {
		_, err = io.ReadFull(br, m.Pix)
	}
	if err != nil {
		return nil, fmt.Errorf("tga pixels: %w", err)
	}

	if format != Grayscale {
		for i := 0; i < len(m.Pix); i += int(format) {
			m.Pix[i], m.Pix[i+2] = m.Pix[i+2], m.Pix[i]
		}
	}
	if h.ImageDescriptor&tgaOriginTop == 0 {
		m.FlipVertically()
	}
	return m, nil
}

func readRLE(r *bufio.Reader, dst []uint8, bpp int) error {
	px := make([]uint8, bpp)
	for i := 0; i < len(dst); {
		head, err := r.ReadByte()
		if err != nil {
			return err
		}
		count := int(head&0x7f) + 1
		if i+count*bpp > len(dst) {
			return errTGAData
		}
		if head < 0x80 {
			if _, err := io.ReadFull(r, dst[i:i+count*bpp]); err != nil {
				return err
			}
			i += count * bpp
			continue
		}
		if _, err := io.ReadFull(r, px); err != nil {
			return err
		}
		for range count {
			copy(dst[i:], px)
			i += bpp
		}
	}
	return nil
}
