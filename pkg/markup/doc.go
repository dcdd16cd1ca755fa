/*
Package markup rewrites inline tag expressions such as {@dice 2d6+3} or {@spell fireball|phb} into
lightly formatted, Markdown flavoured text.

The rewrite is a flat, ordered list of rules. Each Rule owns one tag family: a pattern, the capture
slots it extracts and a render policy. The Engine applies every rule of a Table once, in order, each
rule scanning the output of the previous one. Rules never recurse into their own output.

# Ordering

Order is part of the contract. Dice rolls are resolved before the narrower "dice with average" form,
inline styles run before notes, and notes run before entity links. Reordering the table changes the
result for some inputs; see DefaultTable for the canonical order.

# Usage

	out := markup.Transform("Hit: {@h +5} ({@damage 2d6+3}) {@recharge 5}")
	// Hit: _+5_ (**2d6+3**) Recharge 5-6

Unknown or malformed tags pass through untouched. Transform never fails.
*/
package markup
