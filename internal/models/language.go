package models

import "strings"

// CommentStyle selects the header comment syntax for a language
type CommentStyle int

const (
	// CommentBlock is the slash-star style used by C-family and SQL languages
	CommentBlock CommentStyle = iota
	// CommentTripleQuote is the docstring style used by script languages
	CommentTripleQuote
)

// Language is the closed set of submission languages we know how to store
type Language int

const (
	LangUnknown Language = iota
	LangPython
	LangPython3
	LangJava
	LangCpp
	LangC
	LangCSharp
	LangJavaScript
	LangTypeScript
	LangGo
	LangRuby
	LangSwift
	LangKotlin
	LangRust
	LangScala
	LangPHP
	LangMySQL
	LangPostgreSQL
	LangMSSQL
	LangOracleSQL
)

type languageInfo struct {
	name      string
	extension string
	comment   CommentStyle
}

var languages = map[Language]languageInfo{
	LangUnknown:    {"unknown", ".txt", CommentBlock},
	LangPython:     {"python", ".py", CommentTripleQuote},
	LangPython3:    {"python3", ".py", CommentTripleQuote},
	LangJava:       {"java", ".java", CommentBlock},
	LangCpp:        {"cpp", ".cpp", CommentBlock},
	LangC:          {"c", ".c", CommentBlock},
	LangCSharp:     {"csharp", ".cs", CommentBlock},
	LangJavaScript: {"javascript", ".js", CommentBlock},
	LangTypeScript: {"typescript", ".ts", CommentBlock},
	LangGo:         {"go", ".go", CommentBlock},
	LangRuby:       {"ruby", ".rb", CommentTripleQuote},
	LangSwift:      {"swift", ".swift", CommentBlock},
	LangKotlin:     {"kotlin", ".kt", CommentBlock},
	LangRust:       {"rust", ".rs", CommentBlock},
	LangScala:      {"scala", ".scala", CommentBlock},
	LangPHP:        {"php", ".php", CommentBlock},
	LangMySQL:      {"mysql", ".sql", CommentBlock},
	LangPostgreSQL: {"postgresql", ".sql", CommentBlock},
	LangMSSQL:      {"mssql", ".sql", CommentBlock},
	LangOracleSQL:  {"oraclesql", ".sql", CommentBlock},
}

var languagesByName = func() map[string]Language {
	m := make(map[string]Language, len(languages))
	for lang, info := range languages {
		if lang != LangUnknown {
			m[info.name] = lang
		}
	}
	return m
}()

// ParseLanguage maps a remote language slug to a Language.
// Unrecognized names return LangUnknown.
func ParseLanguage(name string) Language {
	if lang, ok := languagesByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return lang
	}
	return LangUnknown
}

// String returns the remote slug for the language
func (l Language) String() string {
	return l.info().name
}

// Extension returns the file extension including the leading dot
func (l Language) Extension() string {
	return l.info().extension
}

// CommentStyle returns the header comment syntax
func (l Language) CommentStyle() CommentStyle {
	return l.info().comment
}

func (l Language) info() languageInfo {
	if info, ok := languages[l]; ok {
		return info
	}
	return languages[LangUnknown]
}
