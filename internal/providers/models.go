package providers

// Catalog maps logical model names from configuration onto provider-specific
// model identifiers. It is a plain value constructed explicitly and passed to
// whoever resolves models; there is no package-global table to mutate.
type Catalog struct {
	byProvider map[string]map[string]string
}

// DefaultCatalog returns the built-in model mappings.
func DefaultCatalog() Catalog {
	return Catalog{byProvider: map[string]map[string]string{
		"anthropic": {
			"claude-sonnet": "claude-sonnet-4-5",
			"claude-opus":   "claude-opus-4-1",
			"claude-haiku":  "claude-haiku-4-5",
		},
		"openai": {
			"gpt-4o":      "gpt-4o",
			"gpt-4o-mini": "gpt-4o-mini",
			"gpt-4.1":     "gpt-4.1",
			"o3-mini":     "o3-mini",
		},
		"ollama": {
			"llama":    "llama3.3",
			"qwen":     "qwen2.5-coder",
			"deepseek": "deepseek-coder-v2",
		},
	}}
}

// Resolve returns the provider-specific identifier for a logical model name.
// Names not in the catalog pass through unchanged so raw provider IDs keep
// working.
func (c Catalog) Resolve(provider, model string) string {
	if mapped, ok := c.byProvider[provider][model]; ok {
		return mapped
	}
	return model
}

// Known reports whether the catalog has an explicit mapping for the name.
func (c Catalog) Known(provider, model string) bool {
	_, ok := c.byProvider[provider][model]
	return ok
}

// Providers returns the provider names present in the catalog.
func (c Catalog) Providers() []string {
	names := make([]string, 0, len(c.byProvider))
	for p := range c.byProvider {
		names = append(names, p)
	}
	return names
}

// Models returns the logical-name -> identifier mapping for one provider.
func (c Catalog) Models(provider string) map[string]string {
	return c.byProvider[provider]
}
