package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// FailedHash is substituted by callers when hashing a file fails, so a bad
// file does not stop the run.
const FailedHash = "failedhash"

// HashFile returns the SHA-256 of the file contents as uppercase hex.
// Reads in small chunks so large vendor exports don't get buffered whole.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer f.Close()

	return HashReader(f)
}

// HashReader hashes an arbitrary stream; see HashFile.
func HashReader(r io.Reader) (string, error) {
	h := sha256.New()
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading for hash: %w", err)
		}
	}
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}
