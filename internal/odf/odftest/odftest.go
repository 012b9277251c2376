// Package odftest builds small ODF packages for tests.
package odftest

import (
	"archive/zip"
	"bytes"
	"testing"
)

const (
	mimeText = "application/vnd.oasis.opendocument.text"

	header = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content
  xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0"
  xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"
  xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"
  xmlns:xlink="http://www.w3.org/1999/xlink">`
)

// Member is one file in a package.
type Member struct {
	Name string
	Body string
}

// Zip writes members, in order, into a zip archive. The first member is stored
// uncompressed, which is what ODF requires for mimetype.
func Zip(t testing.TB, members ...Member) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, m := range members {
		method := zip.Deflate
		if i == 0 {
			method = zip.Store
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: m.Name, Method: method})
		if err != nil {
			t.Fatalf("create %s: %v", m.Name, err)
		}
		if _, err := w.Write([]byte(m.Body)); err != nil {
			t.Fatalf("write %s: %v", m.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// Text builds an .odt package. styles may be empty to omit styles.xml.
func Text(t testing.TB, content, styles string) []byte {
	t.Helper()
	members := []Member{
		{Name: "mimetype", Body: mimeText},
		{Name: "content.xml", Body: content},
	}
	if styles != "" {
		members = append(members, Member{Name: "styles.xml", Body: styles})
	}
	return Zip(t, members...)
}

// Content wraps body (the children of office:text) and automatic styles in a
// complete content.xml document.
func Content(automaticStyles, body string) string {
	return header +
		"<office:automatic-styles>" + automaticStyles + "</office:automatic-styles>" +
		"<office:body><office:text>" + body + "</office:text></office:body>" +
		"</office:document-content>"
}
