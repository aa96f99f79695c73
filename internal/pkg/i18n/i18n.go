// internal/pkg/i18n/i18n.go
package i18n

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage 是所有查找的最终回退语言。
const DefaultLanguage = "en"

//go:embed labels.yaml
var labelsYAML []byte

// Table 是一张按语言分组的标签表。
// 核心只依赖 "语言 + 标签键" 这个契约，文案内容全部在数据文件里。
type Table struct {
	labels map[string]map[string]string
}

// Load 解析内置的标签表。标签文件损坏属于打包错误，直接返回 error 由 main 处理。
func Load() (*Table, error) {
	labels := make(map[string]map[string]string)
	if err := yaml.Unmarshal(labelsYAML, &labels); err != nil {
		return nil, err
	}
	return &Table{labels: labels}, nil
}

// Lookup 返回 lang 语言下 key 对应的文案。
// 找不到时先回退英语，再回退为键本身，保证永远有可显示的内容。
func (t *Table) Lookup(lang, key string) string {
	if m, ok := t.labels[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if m, ok := t.labels[DefaultLanguage]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return key
}

// Languages 返回表中含有的语言标签。
func (t *Table) Languages() []string {
	langs := make([]string, 0, len(t.labels))
	for lang := range t.labels {
		langs = append(langs, lang)
	}
	return langs
}
