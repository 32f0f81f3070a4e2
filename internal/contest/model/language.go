package model

import "fmt"

// Language identifies one of the supported language configurations.
type Language string

const (
	LanguageCPP14  Language = "CPP14"
	LanguageCPP17  Language = "CPP17"
	LanguageScript Language = "SCRIPT"
)

type languageAttrs struct {
	displayName    string
	solutionFile   string
	configTemplate string
	needPermission bool
}

// The config template is rendered into the SOLUTION file the rime
// backend expects next to the solution source.
var languageTable = map[Language]languageAttrs{
	LanguageCPP14: {
		displayName:    "C++ 14",
		solutionFile:   "main.cpp",
		configTemplate: "cxx_solution(src='%s', flags=['-std=c++1y', '-O2'], challenge_cases=[])",
		needPermission: false,
	},
	LanguageCPP17: {
		displayName:    "C++ 17",
		solutionFile:   "main.cpp",
		configTemplate: "cxx_solution(src='%s', flags=['-std=c++1z', '-O2'], challenge_cases=[])",
		needPermission: false,
	},
	LanguageScript: {
		displayName:    "Script (Shebang Required)",
		solutionFile:   "main.exe",
		configTemplate: "script_solution(src='%s', challenge_cases=[])",
		needPermission: true,
	},
}

// languageOrder fixes the display order of the catalog.
var languageOrder = []Language{LanguageCPP14, LanguageCPP17, LanguageScript}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	_, ok := languageTable[l]
	return ok
}

// DisplayName returns the human-readable name of the language.
func (l Language) DisplayName() string {
	if attrs, ok := languageTable[l]; ok {
		return attrs.displayName
	}
	return string(l)
}

// SolutionFile returns the file name the solution source must be saved as.
func (l Language) SolutionFile() string {
	return languageTable[l].solutionFile
}

// NeedPermission reports whether the solution artifact requires the
// execute bit.
func (l Language) NeedPermission() bool {
	return languageTable[l].needPermission
}

// SolutionConfig renders the backend SOLUTION configuration for the
// language's solution file.
func (l Language) SolutionConfig() string {
	attrs := languageTable[l]
	return fmt.Sprintf(attrs.configTemplate, attrs.solutionFile)
}

// ParseLanguage converts a stored language name into a Language.
func ParseLanguage(name string) (Language, bool) {
	l := Language(name)
	return l, l.Valid()
}

// Languages returns the supported languages in display order.
func Languages() []Language {
	out := make([]Language, len(languageOrder))
	copy(out, languageOrder)
	return out
}
