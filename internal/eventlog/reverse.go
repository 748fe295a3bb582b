package eventlog

import (
	"bytes"
	"os"
)

const tailChunkSize = 8 * 1024

// tailLines reads up to limit newline-separated lines from the end of f,
// newest first, in fixed-size chunks. Only as much of the file as the
// requested lines occupy is ever read.
func tailLines(f *os.File, limit int) ([][]byte, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	var (
		lines   [][]byte
		partial []byte // head of a line that continues in an earlier chunk
		pos     = info.Size()
		buf     = make([]byte, tailChunkSize)
	)
	for pos > 0 && len(lines) < limit {
		n := int64(len(buf))
		if n > pos {
			n = pos
		}
		pos -= n
		if _, err := f.ReadAt(buf[:n], pos); err != nil {
			return nil, err
		}

		chunk := buf[:n]
		for len(chunk) > 0 && len(lines) < limit {
			i := bytes.LastIndexByte(chunk, '\n')
			if i < 0 {
				joined := make([]byte, 0, len(chunk)+len(partial))
				joined = append(joined, chunk...)
				partial = append(joined, partial...)
				chunk = nil
				break
			}
			line := make([]byte, 0, len(chunk)-i-1+len(partial))
			line = append(line, chunk[i+1:]...)
			line = append(line, partial...)
			partial = nil
			if len(line) > 0 {
				lines = append(lines, line)
			}
			chunk = chunk[:i]
		}
	}
	if pos == 0 && len(partial) > 0 && len(lines) < limit {
		lines = append(lines, partial)
	}
	return lines, nil
}
