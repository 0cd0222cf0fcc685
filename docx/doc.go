// Package docx materializes assembled documents as minimal OOXML
// (.docx) packages. The writer implements md2doc.DocumentSink and
// builds word/document.xml in memory; Finalize zips the package parts
// to the underlying io.Writer.
package docx
