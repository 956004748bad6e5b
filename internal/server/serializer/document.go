package serializer

// Document serializes a stored record as {"id": ..., "data": {...}}.
func Document(id string, data map[string]any) map[string]any {
	return map[string]any{
		"id":   id,
		"data": data,
	}
}

// Documents serializes a list of documents.
func Documents(documents []map[string]any) map[string]any {
	return map[string]any{
		"documents": documents,
	}
}
