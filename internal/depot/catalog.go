package depot

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"routeeob/internal/model"
)

//go:embed catalog.toml
var embeddedCatalog []byte

// Entry 仓库代码与展示名
type Entry struct {
	Code string `toml:"code"`
	Name string `toml:"name"`
}

type catalogFile struct {
	Depots []Entry `toml:"depot"`
}

// Catalog 只读仓库目录，代码顺序即报表列顺序
type Catalog struct {
	codes []string
	names map[string]string
}

var defaultCatalog = mustParse(embeddedCatalog)

// Default 内置 12 个仓库的目录
func Default() *Catalog {
	return defaultCatalog
}

// New 从条目创建目录
func New(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, &model.FatalConfigError{Reason: "no depots defined"}
	}
	c := &Catalog{
		codes: make([]string, 0, len(entries)),
		names: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if e.Code == "" || e.Name == "" {
			return nil, &model.FatalConfigError{Reason: fmt.Sprintf("depot entry %q has empty code or name", e.Code)}
		}
		if _, dup := c.names[e.Code]; dup {
			return nil, &model.FatalConfigError{Reason: fmt.Sprintf("duplicate depot code %q", e.Code)}
		}
		c.codes = append(c.codes, e.Code)
		c.names[e.Code] = e.Name
	}
	return c, nil
}

// Parse 解析 TOML 格式目录（[[depot]] code/name）
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, &model.FatalConfigError{Reason: err.Error()}
	}
	return New(f.Depots)
}

// LoadFile 从文件加载目录；path 为空时返回内置目录
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read depot catalog: %w", err)
	}
	return Parse(data)
}

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Codes 有序仓库代码（副本）
func (c *Catalog) Codes() []string {
	return append([]string(nil), c.codes...)
}

// Names 按目录顺序的展示名
func (c *Catalog) Names() []string {
	out := make([]string, len(c.codes))
	for i, code := range c.codes {
		out[i] = c.names[code]
	}
	return out
}

// Len 仓库数量
func (c *Catalog) Len() int { return len(c.codes) }

// Contains 代码是否在目录中
func (c *Catalog) Contains(code string) bool {
	_, ok := c.names[code]
	return ok
}

// Name 代码对应的展示名
func (c *Catalog) Name(code string) (string, error) {
	name, ok := c.names[code]
	if !ok {
		return "", &model.FatalConfigError{Reason: fmt.Sprintf("no display name for depot %q", code)}
	}
	return name, nil
}

// Entries 目录条目（副本）
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.codes))
	for i, code := range c.codes {
		out[i] = Entry{Code: code, Name: c.names[code]}
	}
	return out
}
