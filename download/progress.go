package download

import "io"

// progressWriter wraps the temp file writer, tracking bytes written and
// reporting the integer percentage after each chunk.
type progressWriter struct {
	writer  io.Writer
	total   int64 // expected content length, always > 0 here
	current int64
	report  func(percent int)
}

func newProgressWriter(w io.Writer, total int64, report func(percent int)) *progressWriter {
	return &progressWriter{writer: w, total: total, report: report}
}

// Write implements io.Writer.
func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.writer.Write(p)
	pw.current += int64(n)
	if n > 0 && pw.report != nil {
		pw.report(int(pw.current * 100 / pw.total))
	}
	return n, err
}
