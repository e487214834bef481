// Package formatters builds the prompts sent to the language model and
// turns its free-text answers back into structured data.
package formatters

import (
	"fmt"

	"cv-builder/internal/i18n"
)

// EnhancePrompt asks for a more professional rewrite of one CV field.
func EnhancePrompt(lang i18n.Lang, text string) string {
	if lang == i18n.TR {
		return fmt.Sprintf("Aşağıdaki metni bir özgeçmiş için daha profesyonel, etkili ve eylem fiilleri kullanarak yeniden yaz. Sadece yeniden yazılmış metni döndür, başka hiçbir açıklama ekleme:\n\n\"%s\"", text)
	}
	return fmt.Sprintf("Rewrite the following text for a resume to be more professional, effective, and use action verbs. Return only the rewritten text, do not add any other explanation:\n\n\"%s\"", text)
}

// ParsePrompt asks for the extracted CV text as a single JSON object. The
// field values keep the language of the CV.
func ParsePrompt(cvText string) string {
	return "Aşağıda bir CV'den çıkarılmış metin bulunmaktadır. Bu metni analiz et ve bilgilerini sağlanan JSON şemasına göre yapılandır. Eksik alanları boş bırak. Çıktı sadece ve sadece JSON nesnesi olmalı, başka hiçbir metin veya işaretleme içermemeli.\n\nCV Metni:\n\"\"\"\n" + cvText + "\n\"\"\""
}

// WithSchema appends a JSON schema for generators that cannot enforce a
// response schema themselves.
func WithSchema(prompt string, schema []byte) string {
	return prompt + "\n\nJSON-SCHEMA:\n" + string(schema)
}
