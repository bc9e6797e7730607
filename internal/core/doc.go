// Package core converts a semicolon separated CSV file into the builtin items
// JSON array.
//
// # Pipeline
//
// [Convert] runs one strictly linear pass:
//
//  1. The input path must exist ([ErrInputNotFound] otherwise).
//  2. The file is decoded as UTF-8 and a leading BOM is dropped.
//  3. The first [Options.SampleSize] bytes are sniffed; a detected delimiter
//     other than ';' aborts the run ([ErrDelimiterMismatch]). An inconclusive
//     sniff is accepted.
//  4. [RecordReader] splits the text into records. A quote is only special at
//     the start of a field, and text after the closing quote is kept. The first
//     record is the header. Each following record becomes an [items.Row];
//     blank rows are skipped and the rest are normalized.
//  5. The items are written as an indented JSON array, creating missing parent
//     directories of the output path.
//
// The output file is not written atomically: a write failure can leave a
// partial file behind.
//
// # Error Handling
//
// [ExitCode] maps errors to process exit statuses and [MapError] to
// user-facing messages with a support code:
//
//   - FILE001: input not found (exit 1)
//   - FILE002: wrong delimiter (exit 2)
//   - FILE003: unreadable CSV, such as invalid UTF-8 (exit 1)
//   - ERR000: anything else (exit 1)
package core
