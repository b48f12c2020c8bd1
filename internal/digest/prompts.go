package digest

// styleRules is appended to every daily-level role instruction.
const styleRules = `Writing rules (follow strictly):
- Write like a sharp newsroom editor, not an AI assistant.
- Use markdown: **bold** key facts, names, numbers. Use *italic* for quotes or emphasis.
- HARD LIMIT: 200-300 characters total. Be ruthlessly concise.
- Never use long dashes or em dashes. Use commas or periods.
- Never count releases or statements. Never say "issued" or "announced X statements".
- Never use: notably, delve, comprehensive, robust, furthermore, landscape, paradigm, pivotal, streamline, underscores, leveraging.
- No filler. Every word must earn its place.
- If content is in a foreign language, summarize in English.`

// weeklyStyleRules is appended to every weekly-level role instruction.
const weeklyStyleRules = `Writing rules (follow strictly):
- Write like a sharp newsroom editor, not an AI assistant.
- Use markdown freely: **bold** key facts, *italic* for emphasis or quotes.
- Use bullet lists, tables, blockquotes, and horizontal rules where they help readability.
- HARD LIMIT: 500 characters max for each section.
- Never use long dashes or em dashes. Use commas or periods.
- Never count releases or statements.
- Never use: notably, delve, comprehensive, robust, furthermore, landscape, paradigm, pivotal, streamline, underscores, leveraging.
- If content is in a foreign language, summarize in English.`
