package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Синтаксис ICU-сообщений
	SynInfo                Code = 2000
	SynUnexpectedEOF       Code = 2001
	SynUnclosedBrace       Code = 2002
	SynUnmatchedCloseBrace Code = 2003
	SynEmptyArgument       Code = 2004
	SynInvalidArgumentName Code = 2005
	SynUnknownArgumentType Code = 2006
	SynExpectArgumentStyle Code = 2007
	SynInvalidSkeleton     Code = 2008
	SynInvalidOffset       Code = 2009
	SynExpectSelector      Code = 2010
	SynExpectCaseBody      Code = 2011
	SynDuplicateSelector   Code = 2012
	SynInvalidPluralKey    Code = 2013
	SynEmptyCases          Code = 2014
	SynUnclosedTag         Code = 2015
	SynMismatchedTag       Code = 2016
	SynTagAttributes       Code = 2017
	SynUnmatchedClosingTag Code = 2018
	SynUnexpectedCharacter Code = 2019
	SynInvalidUTF8         Code = 2020
	SynNestingTooDeep      Code = 2021

	// Компиляция
	CompInfo                 Code = 3000
	CompMissingDefaultCase   Code = 3001
	CompInvalidIdentifier    Code = 3002
	CompPoundOutsideOfPlural Code = 3003
	CompDuplicateExport      Code = 3004
	CompDuplicateBinding     Code = 3005
	CompArgumentTypeConflict Code = 3006
	CompUnknownFormatStyle   Code = 3007

	// Ввод-вывод
	IOLoadFileError      Code = 4001
	IOInvalidMessageFile Code = 4002
	IOWriteFileError     Code = 4003

	// Конфигурация
	CfgInfo          Code = 5000
	CfgInvalidFile   Code = 5001
	CfgUnknownKey    Code = 5002
	CfgInvalidLocale Code = 5003
	CfgInvalidTarget Code = 5004

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:              "Unknown error",
		SynInfo:                  "Syntax information",
		SynUnexpectedEOF:         "unexpected end of message",
		SynUnclosedBrace:         "unclosed '{'",
		SynUnmatchedCloseBrace:   "unmatched '}'",
		SynEmptyArgument:         "empty argument",
		SynInvalidArgumentName:   "invalid argument name",
		SynUnknownArgumentType:   "unknown argument type",
		SynExpectArgumentStyle:   "expected argument style",
		SynInvalidSkeleton:       "invalid skeleton",
		SynInvalidOffset:         "invalid plural offset",
		SynExpectSelector:        "expected selector",
		SynExpectCaseBody:        "expected '{' after selector",
		SynDuplicateSelector:     "duplicate selector",
		SynInvalidPluralKey:      "invalid plural selector",
		SynEmptyCases:            "select or plural without cases",
		SynUnclosedTag:           "unclosed tag",
		SynMismatchedTag:         "mismatched closing tag",
		SynTagAttributes:         "tags cannot have attributes",
		SynUnmatchedClosingTag:   "closing tag without opening tag",
		SynUnexpectedCharacter:   "unexpected character",
		SynInvalidUTF8:           "message is not valid UTF-8",
		SynNestingTooDeep:        "message nesting too deep",
		CompInfo:                 "Compile information",
		CompMissingDefaultCase:   "missing 'other' case",
		CompInvalidIdentifier:    "tag name is not a valid identifier",
		CompPoundOutsideOfPlural: "'#' used outside of plural",
		CompDuplicateExport:      "message exported twice",
		CompDuplicateBinding:     "duplicate binding in scope",
		CompArgumentTypeConflict: "argument used with conflicting types",
		CompUnknownFormatStyle:   "unknown format style",
		IOLoadFileError:          "I/O load file error",
		IOInvalidMessageFile:     "invalid message file",
		IOWriteFileError:         "I/O write file error",
		CfgInfo:                  "Configuration information",
		CfgInvalidFile:           "invalid configuration file",
		CfgUnknownKey:            "unknown configuration key",
		CfgInvalidLocale:         "invalid locale",
		CfgInvalidTarget:         "invalid target",
		ObsInfo:                  "Observability information",
		ObsTimings:               "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 4000:
		return fmt.Sprintf("ICU%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
