package schedule

import "golang.org/x/text/language"

// Labels holds the calendar strings for one locale.
type Labels struct {
	Tag         language.Tag
	Days        [7]string
	Months      [12]string
	ShortMonths [12]string
	// MonthYear is a fmt layout taking the month name and the year.
	MonthYear string
	Untitled  string
}

var portugueseLabels = Labels{
	Tag:  language.BrazilianPortuguese,
	Days: [7]string{"DOM", "SEG", "TER", "QUA", "QUI", "SEX", "SAB"},
	Months: [12]string{
		"janeiro", "fevereiro", "março", "abril", "maio", "junho",
		"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
	},
	ShortMonths: [12]string{
		"jan", "fev", "mar", "abr", "mai", "jun",
		"jul", "ago", "set", "out", "nov", "dez",
	},
	MonthYear: "%s de %d",
	Untitled:  "(Sem título)",
}

var englishLabels = Labels{
	Tag:  language.English,
	Days: [7]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"},
	Months: [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	ShortMonths: [12]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	},
	MonthYear: "%s %d",
	Untitled:  "(Untitled)",
}

var spanishLabels = Labels{
	Tag:  language.Spanish,
	Days: [7]string{"DOM", "LUN", "MAR", "MIÉ", "JUE", "VIE", "SÁB"},
	Months: [12]string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	},
	ShortMonths: [12]string{
		"ene", "feb", "mar", "abr", "may", "jun",
		"jul", "ago", "sept", "oct", "nov", "dic",
	},
	MonthYear: "%s de %d",
	Untitled:  "(Sin título)",
}

// supportedLabels is ordered like the matcher's tags; the first entry is the
// fallback.
var supportedLabels = []Labels{portugueseLabels, englishLabels, spanishLabels}

var labelMatcher = language.NewMatcher([]language.Tag{
	language.BrazilianPortuguese,
	language.English,
	language.Spanish,
})

// LabelsFor resolves a locale string (a BCP 47 tag or an Accept-Language
// value) to the closest supported labels, defaulting to Brazilian Portuguese.
func LabelsFor(locale string) Labels {
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return supportedLabels[0]
	}
	_, idx, conf := labelMatcher.Match(tags...)
	if conf == language.No {
		return supportedLabels[0]
	}
	return supportedLabels[idx]
}
