package questgen

import "fmt"

// systemPrompt fixes the output template the parser understands. The
// template is part of the contract with the generation service: a question
// block, four lettered options, a correct letter and an explanation, all in
// Spanish and without delimiters.
const systemPrompt = "Escribes preguntas tipo test en español que se estructuren en " +
	"Pregunta:[pregunta], Opciones:[A)... B)... C)... D)...], " +
	"Opción correcta: [A,B,C o D] y Explicacion:... (sin usar delimitadores)"

// buildUserMessage embeds the criterion description into the generation
// request. Subject names the course topic the questions are about.
func buildUserMessage(subject, criterionDescription string) string {
	return fmt.Sprintf(
		"Haz una pregunta acerca de %s con 4 opciones con solo una correcta, que certifique el criterio: '%s'",
		subject, criterionDescription)
}
