package srcmeta

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Language classifies the source language of a function.
type Language int

const (
	LanguageInvalid Language = iota

	// LanguageC covers C and any other language that does not mangle names.
	LanguageC

	// LanguageCXX covers C++ (Itanium mangling).
	LanguageCXX
)

var languageValueMap = map[Language]string{
	LanguageC:   "c",
	LanguageCXX: "c++",
}

func (l Language) String() string {
	v, ok := languageValueMap[l]
	if !ok {
		return fmt.Sprintf("invalid(%d)", l)
	}

	return v
}

// CXXManglePrefix starts every Itanium-mangled name.
const CXXManglePrefix = "_Z"

// Extensions are case-sensitive: ".C" is C++ while ".c" is C.
var extensionLanguages = map[string]Language{
	".cpp": LanguageCXX,
	".cc":  LanguageCXX,
	".cxx": LanguageCXX,
	".C":   LanguageCXX,
	".c":   LanguageC,
}

// Classify picks the language of a function from the module source file name
// and, when the extension says nothing, from the shape of the function name.
func Classify(sourceFile, name string) Language {
	if lang, ok := extensionLanguages[filepath.Ext(sourceFile)]; ok {
		return lang
	}

	if strings.HasPrefix(name, CXXManglePrefix) {
		return LanguageCXX
	}

	return LanguageC
}
