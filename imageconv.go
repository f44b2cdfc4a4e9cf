package texprinter

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

var svgSize = regexp.MustCompile(`<svg\s*.*\s*width="([0-9\.]+)"\sheight="([0-9\.]+)".*>`)

// prepareImage inspects a downloaded file and returns it as an Image fpdf can
// draw. SVG, WebP and BMP files are converted to a PNG next to the original.
func prepareImage(path string) (*Image, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, err
	}

	switch {
	case mtype.Is("image/png"):
		interlaced, err := interlacedPNG(path)
		if err != nil {
			return nil, err
		}
		if !interlaced {
			return decodedImage(path, "PNG")
		}
		out, err := reencodePNG(path, png.Decode)
		if err != nil {
			return nil, err
		}
		return decodedImage(out, "PNG")
	case mtype.Is("image/jpeg"):
		return decodedImage(path, "JPG")
	case mtype.Is("image/gif"):
		return decodedImage(path, "GIF")
	case mtype.Is("image/svg+xml"):
		out, err := rasterizeSVG(path)
		if err != nil {
			return nil, err
		}
		return decodedImage(out, "PNG")
	case mtype.Is("image/webp"), mtype.Is("image/bmp"):
		decode := bmp.Decode
		if mtype.Is("image/webp") {
			decode = webp.Decode
		}
		out, err := reencodePNG(path, decode)
		if err != nil {
			return nil, err
		}
		return decodedImage(out, "PNG")
	}
	return nil, fmt.Errorf("unsupported image type %s", mtype.String())
}

func decodedImage(path, kind string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &Image{
		Path:   path,
		Type:   kind,
		Width:  cfg.Width,
		Height: cfg.Height,
		Scale:  ScaleFor(cfg.Width),
	}, nil
}

func rasterizeSVG(path string) (string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	icon, err := oksvg.ReadIconStream(f)
	if err != nil {
		return "", err
	}

	width, height := icon.ViewBox.W, icon.ViewBox.H
	if matches := svgSize.FindStringSubmatch(string(contents)); matches != nil {
		width, _ = strconv.ParseFloat(matches[1], 64)
		height, _ = strconv.ParseFloat(matches[2], 64)
	}
	if width < 1 || height < 1 {
		return "", fmt.Errorf("svg %s has no usable size", path)
	}

	icon.SetTarget(0, 0, width, height)
	w, h := int(width), int(height)
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.Draw(rasterx.NewDasher(w, h, rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())), 1)
	return writePNG(path+".png", rgba)
}

// interlacedPNG reports whether the IHDR chunk of a PNG file asks for Adam7
// interlacing, which fpdf cannot embed.
func interlacedPNG(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	// signature (8), chunk length and type (8), width, height, depth, color
	// type, compression and filter (12), then the interlace method
	var header [29]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	return header[28] == 1, nil
}

// reencodePNG decodes path with decode and writes a non-interlaced PNG next
// to it.
func reencodePNG(path string, decode func(io.Reader) (image.Image, error)) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return writePNG(path+".png", img)
}

func writePNG(path string, img image.Image) (string, error) {
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		return "", err
	}
	return path, out.Close()
}
