// Package regioncode reads the legal-district code dump (법정동코드 전체자료) published
// by the Ministry of the Interior. The file is tab separated and CP949 encoded:
//
//	1111000000	서울특별시 종로구	존재
package regioncode

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jipsalddae/backend/app/models"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

const (
	statusActive  = "존재"
	districtLevel = "00000"
)

// Parse decodes a CP949 dump and returns one RegionCode per 5-digit LAWD code.
func Parse(r io.Reader) ([]models.RegionCode, error) {
	return ParseUTF8(transform.NewReader(r, korean.EUCKR.NewDecoder()))
}

// ParseUTF8 is Parse for a dump that was already converted to UTF-8.
// Abolished districts and dong/ri level rows are skipped; the first row of each
// 5-digit code wins.
func ParseUTF8(r io.Reader) ([]models.RegionCode, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	seen := make(map[string]struct{})
	var out []models.RegionCode
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "\t")
		if len(parts) < 3 {
			continue
		}
		fullCode := strings.TrimSpace(parts[0])
		fullName := strings.TrimSpace(parts[1])
		status := strings.TrimSpace(parts[2])

		if status != statusActive || len(fullCode) != 10 || !strings.HasSuffix(fullCode, districtLevel) {
			continue
		}
		code := fullCode[:5]
		if _, ok := seen[code]; ok {
			continue
		}

		names := strings.Fields(fullName)
		if len(names) == 0 {
			continue
		}
		rc := models.RegionCode{Code: code, Sido: names[0]}
		if len(names) > 1 {
			// "수원시 장안구" stays one sigungu; the trade API is keyed per gu.
			sigungu := strings.Join(names[1:], " ")
			rc.Sigungu = &sigungu
		}

		seen[code] = struct{}{}
		out = append(out, rc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read region code dump: %w", err)
	}
	return out, nil
}
