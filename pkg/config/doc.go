/*
Package config loads the optional project configuration for ahkmigrate.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	   +--------+------+-------+--------+
	   |        |              |        |
	+--+--+  +--+---+      +---+--+  +--+---+
	| HCL |  | YAML |      | JSON |  | TOML |
	+-----+  +------+      +------+  +------+

🎯 Purpose:
- Finds .ahkmigrate.{hcl,yaml,yml,json,toml} in a project root
- Parses it with the parser registered for its extension
- Applies defaults that reproduce a plain conversion run
- Builds the rule table and exclusion policy the converter uses

🔄 Flow:
1. Discover or take an explicit path
2. Parse with the matching Parser (unknown fields are errors)
3. Validate: defaults, rule compilation, probe checks
4. Table() and Exclusions() feed pkg/operation and pkg/lint

⚡ Rules:
- exclude_* lists extend the built-in exclusions, never replace them
- backup_dir is always an excluded directory name
- disable_rules must name rules of the default table
- custom rules run after the default table, in file order

🔍 Example:

	cfg, err := config.LoadConfig(ctx, root, "")
	if err != nil {
		return err
	}
	table, err := cfg.Table()
	if err != nil {
		return err
	}
	engine := text.NewRuleEngine(table)
*/
package config
