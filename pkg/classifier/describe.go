package classifier

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var descriptions = map[string]string{
	"application/pdf":              "PDF document",
	"application/postscript":       "PostScript document text",
	"application/zip":              "Zip archive data",
	"application/gzip":             "gzip compressed data",
	"application/x-tar":            "POSIX tar archive",
	"application/x-bzip2":          "bzip2 compressed data",
	"application/x-xz":             "XZ compressed data",
	"application/zstd":             "Zstandard compressed data",
	"application/x-7z-compressed":  "7-zip archive data",
	"application/x-rar-compressed": "RAR archive data",
	"application/java-archive":     "Java archive data (JAR)",
	"application/x-elf":            "ELF",
	"application/x-executable":     "ELF executable",
	"application/x-sharedlib":      "ELF shared object",
	"application/x-object":         "ELF relocatable",
	"application/x-mach-binary":    "Mach-O binary",
	"application/wasm":             "WebAssembly (wasm) binary module",
	"application/vnd.sqlite3":      "SQLite 3.x database",
	"application/json":             "JSON text data",
	"application/x-ndjson":         "JSON text data, newline delimited",
	"application/msword":           "Composite Document File V2 Document",
	"application/epub+zip":         "EPUB document",
	"application/octet-stream":     fallbackDesc,

	"application/vnd.microsoft.portable-executable":                             "PE32 executable",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   "Microsoft Word 2007+",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         "Microsoft Excel 2007+",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "Microsoft PowerPoint 2007+",
	"application/vnd.oasis.opendocument.text":                                   "OpenDocument Text",

	"image/png":          "PNG image data",
	"image/jpeg":         "JPEG image data",
	"image/gif":          "GIF image data",
	"image/webp":         "RIFF (little-endian) data, Web/P image",
	"image/bmp":          "PC bitmap",
	"image/tiff":         "TIFF image data",
	"image/x-icon":       "MS Windows icon resource",
	"image/svg+xml":      "SVG Scalable Vector Graphics image",
	"image/heic":         "ISO Media, HEIF Image HEVC Main or Main Still Picture Profile",
	"audio/mpeg":         "Audio file with ID3",
	"audio/wav":          "RIFF (little-endian) data, WAVE audio",
	"audio/flac":         "FLAC audio bitstream data",
	"audio/ogg":          "Ogg data, audio",
	"video/mp4":          "ISO Media, MP4 v2",
	"video/webm":         "WebM",
	"video/quicktime":    "ISO Media, Apple QuickTime movie",
	"video/x-matroska":   "Matroska data",
	"font/woff":          "Web Open Font Format",
	"font/woff2":         "Web Open Font Format (Version 2)",
	"font/ttf":           "TrueType Font data",
	"text/html":          "HTML document",
	"text/xml":           "XML document",
	"text/csv":           "CSV text",
	"text/rtf":           "Rich Text Format data",
	"text/x-python":      "Python script",
	"text/x-shellscript": "POSIX shell script",
	"text/javascript":    "JavaScript source",
	"text/x-php":         "PHP script",
}

// describe returns a libmagic style description. Unknown types inherit the description of the
// closest known ancestor in mimetype's tree; text without one is described by its encoding.
func describe(detected *mimetype.MIME, mediaType, encoding string) string {
	if d, ok := descriptions[mediaType]; ok {
		return withEncoding(d, mediaType, encoding)
	}

	for m := detected.Parent(); m != nil; m = m.Parent() {
		base, _, err := mime.ParseMediaType(m.String())
		if err != nil {
			continue
		}
		if base == "text/plain" {
			break
		}
		if d, ok := descriptions[base]; ok && base != "application/octet-stream" {
			return withEncoding(d, base, encoding)
		}
	}

	if strings.HasPrefix(mediaType, "text/") {
		return textDescription(encoding)
	}
	return fallbackDesc
}

func withEncoding(desc, mediaType, encoding string) string {
	if strings.HasPrefix(mediaType, "text/") && encoding != encodingBinary {
		return desc + ", " + textDescription(encoding)
	}
	return desc
}

func textDescription(encoding string) string {
	switch encoding {
	case encodingASCII:
		return "ASCII text"
	case "utf-8":
		return "Unicode text, UTF-8 text"
	case "utf-16le":
		return "Unicode text, UTF-16, little-endian text"
	case "utf-16be":
		return "Unicode text, UTF-16, big-endian text"
	case "iso-8859-1":
		return "ISO-8859 text"
	default:
		return encoding + " text"
	}
}
