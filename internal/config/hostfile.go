package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/icecake0141/paraping/internal/errors"
)

// LoadHostFile reads a newline-delimited host list. Blank lines and lines
// beginning with '#' are skipped; everything else is one host token. Order is
// preserved and duplicates are kept.
func LoadHostFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, errors.WrapWithCode(err, errors.ErrInput,
				"Input file '"+path+"' not found",
				"Check the -f/--input path.")
		case os.IsPermission(err):
			return nil, errors.WrapWithCode(err, errors.ErrInput,
				"Permission denied reading file '"+path+"'",
				"Check the file permissions.")
		default:
			return nil, errors.WrapWithCode(err, errors.ErrInput,
				"Error reading input file '"+path+"'", "")
		}
	}
	defer f.Close()

	var hosts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		hosts = append(hosts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrInput,
			"Error reading input file '"+path+"'", "")
	}

	return hosts, nil
}
