// Package actionid implements the action identifier grammar.
//
// An action ID is moduleID + "/" + inModuleActionID. The module ID is a flat
// token (no "/", no leading, trailing or repeated whitespace); the empty
// module ID denotes the root module. The in-module action ID is a
// "/"-separated path of non-empty tokens. An in-module ID whose first token
// starts with MetaActionPrefix denotes a meta-action, which is always stored
// and resolved against the root module.
package actionid

import (
	"strings"
	"unicode"
)

const (
	// RootModuleID identifies the root module, whose shortcuts interfere
	// with the shortcuts of every other module.
	RootModuleID = ""

	// MetaActionPrefix marks a meta-action in-module ID.
	MetaActionPrefix = "#"

	// TokenSeparator separates module ID and path tokens.
	TokenSeparator = "/"
)

// Simplified trims s and collapses internal whitespace runs to one space.
func Simplified(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// IsModuleIDValid reports whether moduleID is a valid module ID.
// The root module ID is valid.
func IsModuleIDValid(moduleID string) bool {
	if strings.Contains(moduleID, TokenSeparator) {
		return false
	}
	return moduleID == Simplified(moduleID)
}

// IsInModuleIDValid reports whether inModuleID is a valid in-module action ID.
func IsInModuleIDValid(inModuleID string) bool {
	tokens := strings.Split(inModuleID, TokenSeparator)
	for i, token := range tokens {
		if token == "" || token != Simplified(token) {
			return false
		}
		if i == 0 {
			if token == MetaActionPrefix {
				return false
			}
		} else if strings.HasPrefix(token, MetaActionPrefix) {
			return false
		}
	}
	return true
}

// IsInModuleMetaID reports whether inModuleID names a meta-action.
// Validity is not checked.
func IsInModuleMetaID(inModuleID string) bool {
	return strings.HasPrefix(inModuleID, MetaActionPrefix)
}

// IsMetaID reports whether the full action ID names a meta-action.
func IsMetaID(actionID string) bool {
	_, inModuleID := Split(actionID)
	return inModuleID != "" && IsInModuleMetaID(inModuleID)
}

// Split splits actionID into module ID and in-module action ID.
// Both results are empty if actionID is not valid.
func Split(actionID string) (moduleID, inModuleID string) {
	tokens := strings.Split(actionID, TokenSeparator)
	if len(tokens) < 2 {
		return "", ""
	}

	moduleID = tokens[0]
	inModuleID = strings.Join(tokens[1:], TokenSeparator)
	if !IsModuleIDValid(moduleID) || !IsInModuleIDValid(inModuleID) {
		return "", ""
	}
	return moduleID, inModuleID
}

// Make joins module ID and in-module action ID.
// It returns "" if either part is invalid.
func Make(moduleID, inModuleID string) string {
	if !IsModuleIDValid(moduleID) || !IsInModuleIDValid(inModuleID) {
		return ""
	}
	return moduleID + TokenSeparator + inModuleID
}

// IsValid reports whether actionID is a valid full action ID.
func IsValid(actionID string) bool {
	_, inModuleID := Split(actionID)
	return inModuleID != ""
}

// Resolve returns the module the (moduleID, inModuleID) pair is stored
// under: the root module for meta-actions, moduleID otherwise.
func Resolve(moduleID, inModuleID string) string {
	if IsInModuleMetaID(inModuleID) {
		return RootModuleID
	}
	return moduleID
}

// InterferingModules returns the modules whose shortcuts may clash with
// shortcuts of moduleID. For the root module that is every known module;
// for any other module it is {root, moduleID}.
func InterferingModules(moduleID string, known []string) []string {
	if moduleID != RootModuleID {
		return []string{RootModuleID, moduleID}
	}
	out := make([]string, 0, len(known)+1)
	out = append(out, RootModuleID)
	for _, m := range known {
		if m != RootModuleID {
			out = append(out, m)
		}
	}
	return out
}

// Tokens splits an in-module ID into its path tokens.
func Tokens(inModuleID string) []string {
	if inModuleID == "" {
		return nil
	}
	return strings.Split(inModuleID, TokenSeparator)
}

// LastToken returns the final path token of an in-module ID.
func LastToken(inModuleID string) string {
	idx := strings.LastIndex(inModuleID, TokenSeparator)
	return inModuleID[idx+1:]
}
