package service

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/TIANLI0/TryOnKit/config"
)

// SharePayload 分享内容
type SharePayload struct {
	Filename    string
	ContentType string
	Title       string
	Text        string
	Data        []byte
}

// Sharer 宿主环境提供的分享能力
type Sharer interface {
	CanShare(p *SharePayload) bool
	Share(ctx context.Context, p *SharePayload) error
}

// CommandSharer 把结果写入临时文件后交给系统分享命令处理。
// 参数中的 {file}、{title}、{text} 会被替换。
type CommandSharer struct {
	command string
	args    []string
}

// NewCommandSharer 未配置命令时返回 nil
func NewCommandSharer(cfg *config.ShareConfig) *CommandSharer {
	if cfg.Command == "" {
		return nil
	}
	return &CommandSharer{
		command: cfg.Command,
		args:    cfg.Args,
	}
}

func (s *CommandSharer) CanShare(p *SharePayload) bool {
	if s == nil || len(p.Data) == 0 {
		return false
	}
	_, err := exec.LookPath(s.command)
	return err == nil
}

func (s *CommandSharer) Share(ctx context.Context, p *SharePayload) error {
	dir, err := os.MkdirTemp("", "tryon-share-")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(p.Filename))
	if err := os.WriteFile(path, p.Data, 0o600); err != nil {
		return fmt.Errorf("failed to write share file: %w", err)
	}

	args := make([]string, 0, len(s.args)+1)
	hasFile := false
	for _, a := range s.args {
		if strings.Contains(a, "{file}") {
			hasFile = true
		}
		a = strings.NewReplacer("{file}", path, "{title}", p.Title, "{text}", p.Text).Replace(a)
		args = append(args, a)
	}
	if !hasFile {
		args = append(args, path)
	}

	out, err := exec.CommandContext(ctx, s.command, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("share command failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
