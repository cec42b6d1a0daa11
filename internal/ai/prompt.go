// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package ai

import (
	"fmt"
	"strings"

	"github.com/aerowatch/aerowatch/internal/models"
)

// PromptContext bundles the environmental and medical context attached to a
// chat question. Any field may be nil when the data is unavailable.
type PromptContext struct {
	Reading *models.SensorReading
	User    *models.User
	Vitals  *models.WearableReading
}

const promptInstruction = `You are an air quality and respiratory health assistant for the Aerowatch monitoring system.
Only answer questions about air quality, pollution, its health effects and related precautions.
If the question is about anything else, politely say you can only help with air quality and health topics.
Keep answers short, practical and easy to understand.`

// BuildPrompt assembles the model prompt from the user's question and the
// available sensor and medical context.
func BuildPrompt(question string, pctx PromptContext) string {
	var b strings.Builder
	b.WriteString(promptInstruction)
	b.WriteString("\n")

	if r := pctx.Reading; r != nil {
		b.WriteString("\nCurrent air quality readings:\n")
		fmt.Fprintf(&b, "- CO2: %.2f ppm\n", r.CO2)
		fmt.Fprintf(&b, "- NH3: %.2f ppm\n", r.NH3)
		fmt.Fprintf(&b, "- CO: %.2f ppm\n", r.CO)
		fmt.Fprintf(&b, "- Smoke: %.2f ppm\n", r.Smoke)
	}

	if u := pctx.User; u != nil && len(u.Diseases) > 0 {
		names := make([]string, 0, len(u.Diseases))
		for _, d := range u.Diseases {
			names = append(names, d.Name)
		}
		fmt.Fprintf(&b, "\nThe user has the following medical conditions: %s.\n", strings.Join(names, ", "))
	}

	if v := pctx.Vitals; v != nil {
		b.WriteString("\nLatest wearable vitals:\n")
		fmt.Fprintf(&b, "- Heart rate: %.0f bpm\n", v.HeartRate)
		fmt.Fprintf(&b, "- SpO2: %.0f%%\n", v.SpO2)
		fmt.Fprintf(&b, "- Body temperature: %.1f C\n", v.BodyTemperature)
	}

	fmt.Fprintf(&b, "\nUser question: %s\n", question)
	return b.String()
}
