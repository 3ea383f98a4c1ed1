package logger

import "strings"

// RedactEmail masks an email address for safe logging.
// "john.doe@example.com" → "jo***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}

// RedactZip masks a ZIP or ZIP+4 code down to its 3-digit sectional prefix,
// which is the coarsest granularity the scheduler's state-exclusion rules
// ever need to reason about. "90210" → "902**", "90210-1234" → "902**-****".
func RedactZip(zip string) string {
	plus4 := ""
	base := zip
	if dash := strings.IndexByte(zip, '-'); dash != -1 {
		base, plus4 = zip[:dash], zip[dash+1:]
	}
	if len(base) <= 3 {
		base = strings.Repeat("*", len(base))
	} else {
		base = base[:3] + strings.Repeat("*", len(base)-3)
	}
	if plus4 == "" {
		return base
	}
	return base + "-" + strings.Repeat("*", len(plus4))
}

// RedactBirthdate masks everything but the year of a "YYYY-MM-DD" date
// string: "1990-07-01" → "1990-**-**". Strings that don't match the
// expected width are fully masked rather than partially leaked.
func RedactBirthdate(date string) string {
	if len(date) != len("YYYY-MM-DD") || date[4] != '-' || date[7] != '-' {
		return "****-**-**"
	}
	return date[:4] + "-**-**"
}
