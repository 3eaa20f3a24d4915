package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wrenfield/cardforge/card"
	"github.com/wrenfield/cardforge/dsl"
	"github.com/wrenfield/cardforge/fonts"
	"github.com/wrenfield/cardforge/imageprov"
	"github.com/wrenfield/cardforge/layout"
	"github.com/wrenfield/cardforge/logging"
	canvasrenderer "github.com/wrenfield/cardforge/renderer/canvas"
	"github.com/wrenfield/cardforge/upload"
)

func main() {
	input := flag.String("deck", "examples/demo.deck", "牌组描述文件路径")
	outDir := flag.String("out", "output", "卡面 PNG 输出目录")
	dataPath := flag.String("data", "", "绑定数据文件（YAML 或 JSON）")
	imageDir := flag.String("images", "", "图片资源目录，默认取牌组文件所在目录")
	fontPath := flag.String("font", "", "默认字体文件，缺省时使用平台默认字体")
	debugDir := flag.String("debug", "", "布局调试 JSON 输出目录")
	doUpload := flag.Bool("upload", false, "渲染后上传到 CARDFORGE_UPLOAD_URL")
	logFile := flag.String("log", "", "日志文件路径（按大小轮转）")
	verbose := flag.Bool("verbose", false, "输出 debug 级别日志")
	flag.Parse()

	logger := logging.New(logging.Options{Verbose: *verbose, File: *logFile})
	defer logger.Sync()

	if err := run(*input, *outDir, *dataPath, *imageDir, *fontPath, *debugDir, *doUpload, logger); err != nil {
		logger.Error("render failed", zap.Error(err))
		color.New(color.FgRed).Fprintf(os.Stderr, "✘ %v\n", err)
		os.Exit(1)
	}
}

// run 串联解析、构建、布局与渲染。
func run(inputPath, outDir, dataPath, imageDir, fontPath, debugDir string, doUpload bool, logger *zap.Logger) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开牌组文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	deck, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析牌组失败: %w", err)
	}

	data, err := loadData(dataPath)
	if err != nil {
		return err
	}

	defaultFont, err := fonts.Resolve(fontPath)
	if err != nil {
		return err
	}

	if imageDir == "" {
		imageDir = filepath.Dir(inputPath)
	}
	images := imageprov.New(imageDir)
	r := canvasrenderer.New(canvasrenderer.Options{
		BaseDir: filepath.Dir(inputPath),
		Images:  images,
		Logger:  logger,
	})
	engine := &layout.Engine{Fonts: r, Images: images}

	spec, err := card.Build(deck, data, card.BuildOptions{
		Engine:      engine,
		DefaultFont: defaultFont,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("构建卡面失败: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	var uploader *upload.Uploader
	if doUpload {
		uploader, err = upload.NewFromEnv(logger)
		if err != nil {
			return err
		}
	}

	for _, c := range spec.Cards {
		img, err := r.RenderCard(c)
		if err != nil {
			return fmt.Errorf("渲染卡面 %s 失败: %w", c.Name, err)
		}
		outPath := filepath.Join(outDir, c.Name+".png")
		if err := os.WriteFile(outPath, img, 0o644); err != nil {
			return fmt.Errorf("写入 %s 失败: %w", outPath, err)
		}
		logger.Info("card rendered",
			zap.String("card", c.Name),
			zap.String("path", outPath))

		if debugDir != "" {
			if err := dumpDebug(c, debugDir); err != nil {
				return err
			}
		}
		if uploader != nil {
			loc, err := uploader.Put(context.Background(), c.Name, img)
			if err != nil {
				return err
			}
			logger.Info("card uploaded", zap.String("url", loc))
		}
	}

	color.New(color.FgGreen).Printf("✔ %s：%d 张卡面已输出到 %s\n", spec.Name, len(spec.Cards), outDir)
	return nil
}

// dumpDebug 为卡面的每个文本层重新计算一次布局并输出调试 JSON。
// 布局逐次调用且无跨调用状态，结果与渲染期一致。
func dumpDebug(c *card.Card, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	for i, layer := range c.Layers {
		var (
			res *layout.FittedResult
			err error
		)
		switch l := layer.(type) {
		case *card.BasicTextLayer:
			res, err = l.Engine.Fit(l.Text, l.Place, nil, l.Opts)
		case *card.EmbeddedImageTextLayer:
			res, err = l.Engine.Fit(l.Text, l.Place, l.Embeddings, l.Opts)
		default:
			continue
		}
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("%s-layer%d.json", c.Name, i))
		if err := layout.WriteDebugJSON(res, path); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}
	return nil
}

// loadData 读取 YAML 或 JSON 绑定数据。YAML 是 JSON 的超集，统一用 YAML 解析。
func loadData(path string) (any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取数据文件 %s 失败: %w", path, err)
	}
	var data any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析数据文件 %s 失败: %w", path, err)
	}
	return data, nil
}
