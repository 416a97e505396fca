package models

import "strings"

// MBTIType is one of the sixteen Myers-Briggs type codes.
type MBTIType string

const (
	MBTIINTJ MBTIType = "INTJ"
	MBTIINTP MBTIType = "INTP"
	MBTIENTJ MBTIType = "ENTJ"
	MBTIENTP MBTIType = "ENTP"
	MBTIINFJ MBTIType = "INFJ"
	MBTIINFP MBTIType = "INFP"
	MBTIENFJ MBTIType = "ENFJ"
	MBTIENFP MBTIType = "ENFP"
	MBTIISTJ MBTIType = "ISTJ"
	MBTIISFJ MBTIType = "ISFJ"
	MBTIESTJ MBTIType = "ESTJ"
	MBTIESFJ MBTIType = "ESFJ"
	MBTIISTP MBTIType = "ISTP"
	MBTIISFP MBTIType = "ISFP"
	MBTIESTP MBTIType = "ESTP"
	MBTIESFP MBTIType = "ESFP"
)

// MBTITypes lists all sixteen types grouped by temperament.
var MBTITypes = []MBTIType{
	// Analysts
	MBTIINTJ, MBTIINTP, MBTIENTJ, MBTIENTP,
	// Diplomats
	MBTIINFJ, MBTIINFP, MBTIENFJ, MBTIENFP,
	// Sentinels
	MBTIISTJ, MBTIISFJ, MBTIESTJ, MBTIESFJ,
	// Explorers
	MBTIISTP, MBTIISFP, MBTIESTP, MBTIESFP,
}

// ParseMBTI normalizes a user supplied code. Unknown codes return false.
func ParseMBTI(code string) (MBTIType, bool) {
	t := MBTIType(strings.ToUpper(strings.TrimSpace(code)))
	for _, known := range MBTITypes {
		if known == t {
			return t, true
		}
	}
	return "", false
}
