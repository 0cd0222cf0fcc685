// Package md2doc renders a constrained Markdown subset into a styled
// office-document structure.
//
// The pipeline is a single parse-then-assemble pass: the block parser
// turns raw text into an ordered sequence of blocks, the run segmenter
// splits each block's inline text into CJK and Latin runs with emphasis
// flags, the style resolver maps structural roles to formatting
// specifications, and the assembler emits the styled blocks in source
// order to a DocumentSink.
//
// Core properties:
//   - Malformed Markdown degrades to literal text, never an error
//   - Segmentation is lossless: run texts concatenate back to the
//     input with only marker characters removed
//   - Sink calls are strictly ordered; a sink failure aborts assembly
//   - CJK and Latin spans carry independent fonts per role
//
// Example:
//
//	doc := md2doc.Parse("# 绪论\n\nFudan大学2024 report.\n")
//	sink := docx.NewWriter(out)
//	err := md2doc.Assemble(doc, md2doc.DefaultProfile(), md2doc.HeaderConfig{}, sink)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Concrete sinks live in the docx and plaintext subpackages.
package md2doc
