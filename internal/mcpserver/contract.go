package mcpserver

// TemplateSyntax documents the report template language for LLM consumers.
const TemplateSyntax = `# Report Template Syntax

Templates are logic-less: sections iterate or test a value, substitutions
print one. There are no expressions.

## Basics

- ` + "`{{name}}`" + ` prints a value, HTML-escaped.
- ` + "`{{{name}}}`" + ` or ` + "`{{& name}}`" + ` prints it raw.
- ` + "`{{#name}}...{{/name}}`" + ` repeats for each list item, or renders once for
  a non-empty value. Inside, names resolve against the item first.
- ` + "`{{^name}}...{{/name}}`" + ` renders when the value is missing, false or empty.
- ` + "`{{.}}`" + ` is the current item; ` + "`{{a.b}}`" + ` reads nested fields.
- A list printed directly joins its items with commas.
- ` + "`{{! comment }}`" + ` is dropped. A line holding only section or comment
  tags is removed entirely.

## View

- ` + "`notes`" + `, ` + "`referenced`" + `: note lists (id, title, filename, fullpath,
  wikiName, link, matchData).
- ` + "`orphans`" + `: ` + "`note`" + ` plus the unresolved ` + "`ids`" + `.
- One list per category (Links, Tags, Contexts, Tasks, Orphans, Properties),
  each item ` + "`{key, value}`" + ` where value lists facts (id, title, name, data,
  bag, link) sharing the key. Items are sorted by key.
- ` + "`formatted.<Category>`" + `: the category's ready-made markdown.
- ` + "`created`" + `, ` + "`modified`" + `: RFC 3339 timestamps.

## Directives

- ` + "`{{~name}}`" + ` and ` + "`{{{~name}}}`" + ` also escape ( and ) so titles do not
  break markdown link syntax.
- ` + "`{{?Tasks/regex/}}...{{/?Tasks}}`" + ` renders the block for each item and
  keeps only the output matching regex.
- ` + "`{{?Tasks?sort(due)/regex/}}...{{/?Tasks}}`" + ` does the same over items
  sorted by the text after ` + "`due:`" + ` in their key; items without it come
  last. ` + "`sort()`" + ` sorts by the whole key. Ties keep their order.
- Any other function name renders ` + "`unknown function: NAME`" + ` in place.

## Example

` + "```" + `markdown
# Open tasks ({{modified}})

{{?Tasks?sort(due)/\[ \]/}}
- {{key}} {{#value}}{{~title}}{{/value}}
{{/?Tasks}}

{{#orphans}}
* {{note.link}} references missing {{#ids}}{{.}} {{/ids}}
{{/orphans}}
` + "```" + `
`
