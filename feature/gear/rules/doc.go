// Package rules interprets the human-edited gear rules file.
//
// Interpretation happens in two phases. Parse turns the line-oriented text
// into typed directives, strictly: any line that is not one of the recognized
// shapes aborts with the offending tokens reported. Resolve then maps every
// component code, role name and bike id through the freshly reconciled store
// tables and materializes the longterm-assignment and hashtag rows; a
// reference that cannot be resolved names the missing key and the directive
// that used it.
//
// The resulting rows carry no identity outside the rules text, so callers
// persist them with reconcile.ReplaceAll inside one transaction.
package rules
