// Package usage aggregates cumulative component wear from resolved
// attributions, seeded by the initial offsets declared in the rules file.
package usage
