package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeepMergeJSONObjects(t *testing.T) {
	old := map[string]interface{}{
		"site":    map[string]interface{}{"title": "otakulib", "url": "https://a"},
		"webhook": map[string]interface{}{"notify_url": "https://old"},
	}
	incoming := map[string]interface{}{
		"webhook": map[string]interface{}{"notify_url": "https://new"},
	}

	out := deepMergeJSON(old, incoming).(map[string]interface{})

	// untouched branch survives
	site := out["site"].(map[string]interface{})
	assert.Equal(t, "otakulib", site["title"])

	// updated branch replaced at the leaf
	webhook := out["webhook"].(map[string]interface{})
	assert.Equal(t, "https://new", webhook["notify_url"])
}

func TestDeepMergeJSONScalarsReplace(t *testing.T) {
	assert.Equal(t, "b", deepMergeJSON("a", "b"))
	assert.Equal(t, float64(2), deepMergeJSON(float64(1), float64(2)))

	// arrays replace wholesale, no element merging
	out := deepMergeJSON([]interface{}{"x"}, []interface{}{"y", "z"})
	assert.Equal(t, []interface{}{"y", "z"}, out)
}

func TestDeepMergeJSONDoesNotMutateOld(t *testing.T) {
	old := map[string]interface{}{"k": map[string]interface{}{"a": "1"}}
	_ = deepMergeJSON(old, map[string]interface{}{"k": map[string]interface{}{"a": "2"}})

	assert.Equal(t, "1", old["k"].(map[string]interface{})["a"])
}

func TestDefaultSettings(t *testing.T) {
	def := Default()
	assert.Equal(t, "otakulib", def.Site.Title)
	assert.Empty(t, def.Webhook.NotifyURL)
	assert.NotNil(t, def.Proxy.Sources)
}
