package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttachmentDisposition(t *testing.T) {
	assert.Equal(t,
		`attachment; filename="shopping_list_Alice.txt"; filename*=UTF-8''shopping_list_Alice.txt`,
		attachmentDisposition("shopping_list_Alice.txt"))

	// Cyrillic names keep an ASCII fallback and travel percent-encoded.
	assert.Equal(t,
		`attachment; filename="shopping_list______.txt"; filename*=UTF-8''shopping_list_%D0%90%D0%BB%D0%B8%D1%81%D0%B0.txt`,
		attachmentDisposition("shopping_list_Алиса.txt"))

	assert.Equal(t,
		`attachment; filename="a_b c.txt"; filename*=UTF-8''a%22b%20c.txt`,
		attachmentDisposition(`a"b c.txt`))
}
