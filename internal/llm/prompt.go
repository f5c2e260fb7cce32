package llm

// WrapPrompt places the caller's instruction inside the assistant persona.
func WrapPrompt(instruction string) string {
	return "You are a helpful personal finance assistant. " +
		"Answer using only the provided data summary when possible. " +
		"Be concise.\n\n" +
		"Instruction:\n" + instruction + "\n\nResponse:"
}
