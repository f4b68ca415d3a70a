package scanning

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return img
}

func encodePNG() []byte {
	var buf bytes.Buffer
	Expect(png.Encode(&buf, testImage())).To(Succeed())
	return buf.Bytes()
}

func encodeJPEG() []byte {
	var buf bytes.Buffer
	Expect(jpeg.Encode(&buf, testImage(), nil)).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("toPNG", func() {
	It("passes PNG data through", func() {
		data := encodePNG()
		out, err := toPNG(data, "image/png")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(data))
	})

	It("converts JPEG to PNG", func() {
		out, err := toPNG(encodeJPEG(), "image/jpeg")
		Expect(err).NotTo(HaveOccurred())
		_, format, err := image.Decode(bytes.NewReader(out))
		Expect(err).NotTo(HaveOccurred())
		Expect(format).To(Equal("png"))
	})

	It("sniffs the type when none is declared", func() {
		out, err := toPNG(encodeJPEG(), "")
		Expect(err).NotTo(HaveOccurred())
		Expect(bytes.HasPrefix(out, []byte("\x89PNG"))).To(BeTrue())
	})

	It("rejects data that is not an image", func() {
		_, err := toPNG([]byte("definitely not an image"), "text/plain")
		Expect(err).To(MatchError(ContainSubstring("decoding image")))
	})
})

var _ = Describe("mediaType", func() {
	It("detects HEIC from its magic bytes", func() {
		data := append([]byte{0, 0, 0, 24}, []byte("ftypheic")...)
		data = append(data, make([]byte, 16)...)
		Expect(mediaType(data, "application/octet-stream")).To(Equal(mimeHEIC))
	})

	It("maps HEIF to HEIC", func() {
		Expect(mediaType([]byte("x"), "image/HEIF")).To(Equal(mimeHEIC))
	})

	It("ignores content type parameters", func() {
		Expect(mediaType([]byte("x"), "application/pdf; name=receipt.pdf")).To(Equal(mimePDF))
	})

	It("sniffs generic uploads", func() {
		Expect(mediaType(encodePNG(), "application/octet-stream")).To(Equal(mimePNG))
	})
})
