package langserver

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// completionKinds maps ctags kind names, and the single-letter kinds older
// builds emit, onto LSP completion item kinds
var completionKinds = map[string]protocol.CompletionItemKind{
	"function":    protocol.CompletionItemKindFunction,
	"f":           protocol.CompletionItemKindFunction,
	"subroutine":  protocol.CompletionItemKindFunction,
	"func":        protocol.CompletionItemKindFunction,
	"method":      protocol.CompletionItemKindMethod,
	"member":      protocol.CompletionItemKindMethod,
	"m":           protocol.CompletionItemKindMethod,
	"constructor": protocol.CompletionItemKindConstructor,
	"class":       protocol.CompletionItemKindClass,
	"c":           protocol.CompletionItemKindClass,
	"struct":      protocol.CompletionItemKindStruct,
	"s":           protocol.CompletionItemKindStruct,
	"union":       protocol.CompletionItemKindStruct,
	"u":           protocol.CompletionItemKindStruct,
	"interface":   protocol.CompletionItemKindInterface,
	"i":           protocol.CompletionItemKindInterface,
	"trait":       protocol.CompletionItemKindInterface,
	"enum":        protocol.CompletionItemKindEnum,
	"g":           protocol.CompletionItemKindEnum,
	"enumerator":  protocol.CompletionItemKindEnumMember,
	"e":           protocol.CompletionItemKindEnumMember,
	"field":       protocol.CompletionItemKindField,
	"property":    protocol.CompletionItemKindProperty,
	"variable":    protocol.CompletionItemKindVariable,
	"v":           protocol.CompletionItemKindVariable,
	"var":         protocol.CompletionItemKindVariable,
	"local":       protocol.CompletionItemKindVariable,
	"l":           protocol.CompletionItemKindVariable,
	"parameter":   protocol.CompletionItemKindVariable,
	"constant":    protocol.CompletionItemKindConstant,
	"const":       protocol.CompletionItemKindConstant,
	"macro":       protocol.CompletionItemKindConstant,
	"d":           protocol.CompletionItemKindConstant,
	"typedef":     protocol.CompletionItemKindTypeParameter,
	"type":        protocol.CompletionItemKindTypeParameter,
	"t":           protocol.CompletionItemKindTypeParameter,
	"alias":       protocol.CompletionItemKindTypeParameter,
	"module":      protocol.CompletionItemKindModule,
	"namespace":   protocol.CompletionItemKindModule,
	"n":           protocol.CompletionItemKindModule,
	"package":     protocol.CompletionItemKindModule,
	"p":           protocol.CompletionItemKindModule,
	"file":        protocol.CompletionItemKindFile,
}

// mapCompletionKind maps a ctags kind to an LSP kind; unknown kinds are Text.
// Returns nil when the candidate has no kind.
func mapCompletionKind(kind string) *protocol.CompletionItemKind {
	if kind == "" {
		return nil
	}
	k, ok := completionKinds[kind]
	if !ok {
		k, ok = completionKinds[strings.ToLower(kind)]
	}
	if !ok {
		k = protocol.CompletionItemKindText
	}
	return &k
}
