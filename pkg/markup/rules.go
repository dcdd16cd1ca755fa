package markup

import (
	"fmt"
	"strings"
)

// Rule names, in application order.
const (
	RuleDiceOrDamage       = "dice-or-damage"
	RuleComputedDice       = "computed-dice"
	RuleMultiplicativeDice = "multiplicative-dice"
	RuleScaledDice         = "scaled-dice"
	RuleHit                = "hit"
	RuleChance             = "chance"
	RuleRecharge           = "recharge"
	RuleHealth             = "health"
	RuleDC                 = "dc"
	RuleBold               = "bold"
	RuleItalic             = "italic"
	RuleStrike             = "strike"
	RuleNote               = "note"
	RuleUnlabelledLink     = "unlabelled-link"
	RuleLabelledLink       = "labelled-link"
	RuleFilter             = "filter"
	RuleBook               = "book"
	RuleAttack             = "attack"
)

// Pattern fragments shared by several families.
// Go's \w, \s and \d are ASCII only; word, space and \p{Nd} are the Unicode classes.
const (
	word     = `\p{L}\p{M}\p{Nd}\p{Pc}`
	space    = `\p{Z}\t\n\v\f\r\x{85}`
	diceTerm = `(?:\p{Nd}+)?d\p{Nd}+(?: ?[\+-] ?\p{Nd}+)?`
	diceExpr = `(?:(?:` + diceTerm + `)(?: ?[\+-]? ?))+`
	altDice  = `(?:(?:;` + diceTerm + `)(?: ?[\+-]? ?))+`
	styled   = `[` + word + space + `'().?!\-]+`
	linkText = `[` + word + space + `'()\-+,]`
)

// EntityKinds are the reference tags rendered as generic links.
var EntityKinds = []string{
	"spell", "item", "creature", "background", "race", "optfeature", "condition", "disease",
	"reward", "alert", "psionic", "object", "boon", "hazard", "variantrule", "vehicle",
	"table", "action", "sense", "skill",
}

// AttackTypes maps {@atk} codes to their display text.
var AttackTypes = map[string]string{
	"m":     "Melee Attack",
	"mw":    "Melee Weapon Attack",
	"ms":    "Melee Spell Attack",
	"mw,rw": "Melee or Ranged Weapon Attack",
	"rs":    "Ranged Spell Attack",
	"rw":    "Ranged Weapon Attack",
	"ms,rs": "Melee or Ranged Spell Attack",
}

var attackCodes = []string{"m", "mw", "ms", "mw,rw", "rs", "rw", "ms,rs"}

// DefaultRules returns a fresh copy of the rule list in application order.
func DefaultRules() []Rule {
	kinds := `(?:` + strings.Join(EntityKinds, "|") + `)`

	return []Rule{
		NewRule(RuleDiceOrDamage,
			`\{@(?:dice|damage) (`+diceExpr+`)\}`,
			`**${1}**`).WithExample("{@damage 2d6 + 3}"),

		NewRule(RuleComputedDice,
			`\{@dice (?:`+diceTerm+`)\|(\p{Nd}+)\}`,
			`${1}`).WithExample("{@dice 2d6+3|10}"),

		NewRule(RuleMultiplicativeDice,
			`\{@dice (\p{Nd}*d\p{Nd}+ × (?:\p{Nd}*d?\p{Nd}*))\}`,
			`${1}`).WithExample("{@dice 1d4 × 10}"),

		NewRule(RuleScaledDice,
			`\{@(?:scaledamage|scaledice) `+diceExpr+`(?:`+altDice+`)?`+
				`\|(?:\p{Nd}+-\p{Nd}+|(?:,?\p{Nd}+)*)`+
				`\|(`+diceExpr+`)`+
				`(?:\|[`+word+space+`]+)?\}`,
			`${1}`).WithExample("{@scaledamage 8d6|3-9|1d6}"),

		NewRule(RuleHit,
			`\{@h(?:it)? ([\+-]?\p{Nd}+)\}`,
			`_${1}_`).WithExample("{@hit +5}"),

		NewRule(RuleChance,
			`\{@chance (\p{Nd}+)\}`,
			`${1} percent`).WithExample("{@chance 33}"),

		NewRuleFunc(RuleRecharge,
			`\{@recharge(?: (\p{Nd}))?\}`,
			renderRecharge).WithExample("{@recharge 5}"),

		NewRuleFunc(RuleHealth,
			`\{@h\}(\p{Nd}+)?`,
			renderHealth).WithExample("{@h}12"),

		NewRule(RuleDC,
			`\{@dc (\p{Nd}+)\}`,
			`DC ${1}`).WithExample("{@dc 15}"),

		NewRule(RuleBold,
			`\{@b(?:old)? (`+styled+`)\}`,
			`**${1}**`).WithExample("{@b bold text}"),

		NewRule(RuleItalic,
			`\{@i(?:talic)? (`+styled+`)\}`,
			`_${1}_`).WithExample("{@i italic text}"),

		NewRule(RuleStrike,
			`\{@s(?:trike)? (`+styled+`)\}`,
			`~${1}~`).WithExample("{@s struck text}"),

		// Note text may carry literal braces and tag openers; they are emitted as-is.
		NewRule(RuleNote,
			`\{@note ([`+word+space+`.!?,\|='\{@\}]+)\}`,
			`${1}`).WithExample("{@note Spell attacks use INT}"),

		NewRule(RuleUnlabelledLink,
			`\{@`+kinds+` (`+linkText+`+)(?:\|`+linkText+`*)?\}`,
			`_${1}_`).WithExample("{@spell fireball|phb}"),

		NewRule(RuleLabelledLink,
			`\{@`+kinds+` (?:`+linkText+`*\|){2}(`+linkText+`+)\}`,
			`_${1}_`).WithExample("{@spell fireball|phb|a fiery blast}"),

		NewRule(RuleFilter,
			`\{@filter ([`+word+space+`'()\-/+]+)(?:\|[`+word+space+`'!=;()&\[\]/+]+)*\}`,
			`${1}`).WithExample("{@filter wizard spells|spells|class=wizard}"),

		NewRule(RuleBook,
			`\{@(?:book|adventure) ([`+word+space+`'()\-+]+)(?:\|[`+word+space+`'()\-+]+)*\}`,
			`${1}`).WithExample("{@book Player's Handbook|PHB|1}"),

		NewRuleFunc(RuleAttack,
			`\{@atk (`+strings.Join(attackCodes, "|")+`)\}`,
			renderAttack).WithExample("{@atk mw}"),
	}
}

// renderRecharge: {@recharge 4} -> Recharge 4-6, {@recharge} -> Recharge 6.
func renderRecharge(m Match) string {
	switch c := m.Slot(1).(type) {
	case Present:
		return fmt.Sprintf("Recharge %s-6", string(c))
	default:
		return "Recharge 6"
	}
}

// renderHealth keeps the digits trailing {@h} and drops the tag itself.
func renderHealth(m Match) string {
	switch c := m.Slot(1).(type) {
	case Present:
		return string(c)
	default:
		return ""
	}
}

func renderAttack(m Match) string {
	if text, ok := AttackTypes[m.Value(1)]; ok {
		return text
	}
	return m.Text()
}
