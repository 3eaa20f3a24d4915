package card

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wrenfield/cardforge/binding"
	"github.com/wrenfield/cardforge/dsl"
	"github.com/wrenfield/cardforge/layout"
)

// BuildOptions 控制从 AST 构建卡面的过程。
type BuildOptions struct {
	// Engine 提供文本适配与嵌入排布，必填。
	Engine *layout.Engine
	// DefaultFont 是 text 层未声明 font 属性时使用的字体文件路径。
	DefaultFont string
	Logger      *zap.Logger
}

// DeckMeta 收集 meta 段的元数据赋值。
type DeckMeta struct {
	Title  string
	Author string
	Tags   []string
}

// ResourceSet 收集 resources 段声明的字体、图片与触发词映射。
// Fonts/Images 均为名字到文件路径；Embeddings 为触发词到图片路径。
type ResourceSet struct {
	Fonts      map[string]string
	Images     map[string]string
	Embeddings map[string]string
}

// DeckSpec 是一次构建的产物：解析完成、数据绑定完成的卡面序列。
type DeckSpec struct {
	Name      string
	Meta      DeckMeta
	Resources ResourceSet
	Cards     []*Card
}

// Build 根据 AST 与绑定数据生成卡面序列。
// 文本内容在构建期完成 ${path} 插值；布局与绘制推迟到渲染期。
func Build(deck *dsl.Deck, data any, opts BuildOptions) (*DeckSpec, error) {
	if deck == nil {
		return nil, fmt.Errorf("card: 牌组为空")
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("card: 缺少布局引擎")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	res, err := collectResources(deck)
	if err != nil {
		return nil, err
	}
	meta := collectMeta(deck)

	spec := &DeckSpec{
		Name:      deck.Name,
		Meta:      meta,
		Resources: res,
	}
	for _, section := range deck.Sections {
		if section.Card == nil {
			continue
		}
		c, err := buildCard(section.Card, res, data, opts)
		if err != nil {
			return nil, err
		}
		spec.Cards = append(spec.Cards, c)
	}
	if len(spec.Cards) == 0 {
		return nil, fmt.Errorf("card: 牌组 %s 中没有 card 段落", deck.Name)
	}
	return spec, nil
}

func buildCard(section *dsl.CardSection, res ResourceSet, data any, opts BuildOptions) (*Card, error) {
	if section.Block == nil {
		return nil, fmt.Errorf("card: %s 缺少内容块", section.Name)
	}
	if section.Size.Width <= 0 || section.Size.Height <= 0 {
		return nil, fmt.Errorf("card: %s 尺寸非法 (%d×%d)", section.Name, section.Size.Width, section.Size.Height)
	}

	c := &Card{
		Name: section.Name,
		W:    int(section.Size.Width),
		H:    int(section.Size.Height),
	}
	for _, stmt := range section.Block.Statements {
		if stmt.Command == nil {
			continue
		}
		cmd := stmt.Command
		switch cmd.Name {
		case "text":
			layer, err := buildTextLayer(cmd, section.Name, res, data, opts, false)
			if err != nil {
				return nil, err
			}
			c.Layers = append(c.Layers, layer)
		case "embed-text":
			layer, err := buildTextLayer(cmd, section.Name, res, data, opts, true)
			if err != nil {
				return nil, err
			}
			c.Layers = append(c.Layers, layer)
		case "image":
			layer, err := buildImageLayer(cmd, section.Name, res)
			if err != nil {
				return nil, err
			}
			c.Layers = append(c.Layers, layer)
		default:
			// 未知命令忽略，保持向前兼容
			opts.Logger.Warn("ignoring unknown card command",
				zap.String("card", section.Name),
				zap.String("command", cmd.Name))
		}
	}
	return c, nil
}

func buildTextLayer(cmd *dsl.Command, cardName string, res ResourceSet, data any, opts BuildOptions, embedded bool) (Layer, error) {
	if cmd.Block == nil {
		return nil, fmt.Errorf("card: %s 的 %s 层缺少内容块", cardName, cmd.Name)
	}
	attrs := collectAttrs(cmd.Block)
	content := extractText(cmd.Block)
	if content == "" {
		return nil, fmt.Errorf("card: %s 的 %s 层缺少文本内容", cardName, cmd.Name)
	}
	content = binding.Interpolate(content, data)

	place, err := parseArea(attrs["area"], cardName, cmd.Name)
	if err != nil {
		return nil, err
	}

	lopts := layout.Options{
		FontFile: opts.DefaultFont,
		Logger:   opts.Logger,
	}
	if name := attrs["font"]; name != "" {
		path, ok := res.Fonts[name]
		if !ok {
			return nil, fmt.Errorf("card: %s 引用了未声明的字体 %s", cardName, name)
		}
		lopts.FontFile = path
	}
	if lopts.FontFile == "" {
		return nil, fmt.Errorf("card: %s 的 %s 层没有可用字体", cardName, cmd.Name)
	}
	if v := attrs["size"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("card: %s 的字号 %q 非法", cardName, v)
		}
		lopts.MaxFontSize = n
	}
	if v := attrs["align"]; v != "" {
		a, err := layout.ParseAlignment(v)
		if err != nil {
			return nil, fmt.Errorf("card: %s: %w", cardName, err)
		}
		lopts.VAlignment = a
	}
	if v := attrs["spacing"]; v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("card: %s 的行距比例 %q 非法", cardName, v)
		}
		lopts.SpacingRatio = f
	}
	if v := attrs["embed-v-offset"]; v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("card: %s 的 embed-v-offset %q 非法", cardName, v)
		}
		lopts.EmbedVOffsetRatio = f
	}
	if v := attrs["embed-size-ratio"]; v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("card: %s 的 embed-size-ratio %q 非法", cardName, v)
		}
		lopts.EmbedSizeRatio = f
	}

	if embedded {
		return &EmbeddedImageTextLayer{
			Engine:     opts.Engine,
			Text:       content,
			Place:      place,
			Embeddings: res.Embeddings,
			Opts:       lopts,
		}, nil
	}
	return &BasicTextLayer{
		Engine: opts.Engine,
		Text:   content,
		Place:  place,
		Opts:   lopts,
	}, nil
}

func buildImageLayer(cmd *dsl.Command, cardName string, res ResourceSet) (Layer, error) {
	if len(cmd.Args) == 0 {
		return nil, fmt.Errorf("card: %s 的 image 层缺少图片名", cardName)
	}
	name := cmd.Args[0].Value
	path, ok := res.Images[name]
	if !ok {
		return nil, fmt.Errorf("card: %s 引用了未声明的图片 %s", cardName, name)
	}
	attrs := collectAttrs(cmd.Block)
	place, err := parseArea(attrs["area"], cardName, cmd.Name)
	if err != nil {
		return nil, err
	}
	return &BasicImageLayer{Path: path, Place: place}, nil
}

// collectAttrs 把块内的赋值收集为字符串属性表。area 例外：
// 数组值保留原始逗号拼接形式，由 parseArea 再行解析。
func collectAttrs(block *dsl.Block) map[string]string {
	attrs := map[string]string{}
	if block == nil {
		return attrs
	}
	for _, stmt := range block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		key := strings.ToLower(stmt.Assignment.Key)
		if arr := stmt.Assignment.Value.Array; arr != nil {
			parts := make([]string, 0, len(arr.Values))
			for _, v := range arr.Values {
				parts = append(parts, valueToString(v))
			}
			attrs[key] = strings.Join(parts, ",")
			continue
		}
		attrs[key] = valueToString(stmt.Assignment.Value)
	}
	return attrs
}

// parseArea 解析 area: [x0, y0, x1, y1] 为目标矩形。
func parseArea(raw, cardName, layerName string) (layout.Placement, error) {
	if raw == "" {
		return layout.Placement{}, fmt.Errorf("card: %s 的 %s 层缺少 area", cardName, layerName)
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return layout.Placement{}, fmt.Errorf("card: %s 的 area 需要 4 个值，得到 %d 个", cardName, len(parts))
	}
	vals := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return layout.Placement{}, fmt.Errorf("card: %s 的 area 值 %q 非法", cardName, p)
		}
		vals[i] = n
	}
	if vals[2] <= vals[0] || vals[3] <= vals[1] {
		return layout.Placement{}, fmt.Errorf("card: %s 的 area 矩形退化: %v", cardName, vals)
	}
	return layout.Placement{
		X: vals[0],
		Y: vals[1],
		W: vals[2] - vals[0],
		H: vals[3] - vals[1],
	}, nil
}

func collectResources(deck *dsl.Deck) (ResourceSet, error) {
	res := ResourceSet{
		Fonts:      map[string]string{},
		Images:     map[string]string{},
		Embeddings: map[string]string{},
	}
	type pendingEmbedding struct {
		trigger string
		image   string
	}
	var pending []pendingEmbedding

	for _, section := range deck.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil {
				continue
			}
			cmd := stmt.Command
			switch cmd.Name {
			case "font":
				if len(cmd.Args) < 2 {
					return res, fmt.Errorf("card: font 声明需要名字与路径")
				}
				res.Fonts[cmd.Args[0].Value] = cmd.Args[1].Value
			case "image":
				if len(cmd.Args) < 2 {
					return res, fmt.Errorf("card: image 声明需要名字与路径")
				}
				res.Images[cmd.Args[0].Value] = cmd.Args[1].Value
			case "embedding":
				if len(cmd.Args) < 2 {
					return res, fmt.Errorf("card: embedding 声明需要触发词与图片名")
				}
				pending = append(pending, pendingEmbedding{
					trigger: cmd.Args[0].Value,
					image:   cmd.Args[1].Value,
				})
			}
		}
	}

	// embedding 引用图片资源，声明顺序无关，最后统一解析。
	for _, p := range pending {
		path, ok := res.Images[p.image]
		if !ok {
			return res, fmt.Errorf("card: embedding %q 引用了未声明的图片 %s", p.trigger, p.image)
		}
		res.Embeddings[p.trigger] = path
	}
	return res, nil
}

func collectMeta(deck *dsl.Deck) DeckMeta {
	var meta DeckMeta
	for _, section := range deck.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = valueToString(stmt.Assignment.Value)
			case "author":
				meta.Author = valueToString(stmt.Assignment.Value)
			case "tags":
				meta.Tags = valueToStringSlice(stmt.Assignment.Value)
			}
		}
	}
	return meta
}

func extractText(block *dsl.Block) string {
	if block == nil {
		return ""
	}
	var builder strings.Builder
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			if builder.Len() > 0 {
				builder.WriteByte('\n')
			}
			builder.WriteString(string(stmt.Text.Value))
		}
	}
	return builder.String()
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Expr != nil:
		var builder strings.Builder
		for _, part := range val.Expr.Parts {
			builder.WriteString(part.Value)
		}
		return builder.String()
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val); s != "" {
		return []string{s}
	}
	return nil
}
