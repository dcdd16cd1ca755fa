/*
Package chazz rewrites inline {@tag ...} markup into Markdown.

Game-content JSON exports embed structured references such as
"{@atk mw} {@hit 4} to hit, {@h}5 ({@damage 1d6 + 2}) slashing damage".
chazz applies an ordered table of flat rewrite rules to that text and
produces readable Markdown: "Melee Weapon Attack _4_ to hit, 5 (**1d6 + 2**) slashing damage".

# Concept

Each rule is a regular expression plus a replacement. Rules run once each, in a
fixed order, every rule over the previous rule's output. The engine never
recurses: tags nested inside other tags are resolved only when an earlier rule
already rewrote them.

# Usage

For single strings, use Transform:

	out := chazz.Transform("{@spell fireball|phb|a fiery blast}")
	// out == "_a fiery blast_"

For batches, build a Converter over a directory of JSON documents:

	conv := chazz.New("data/bestiary", "entries", "out")
	report, err := conv.Run(ctx)

The packages under pkg/ expose the pieces separately: pkg/markup holds the rule
engine, pkg/convert the batch driver, and pkg/adapters the loaders and sinks
(filesystem, Redis, memory), plus the HTTP and MCP servers.
*/
package chazz
