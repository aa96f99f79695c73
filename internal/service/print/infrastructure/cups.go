// internal/service/print/infrastructure/cups.go
package infrastructure

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// CUPSSystem 通过 lpstat / lp 命令对接宿主的 CUPS 打印子系统。
type CUPSSystem struct{}

func NewCUPSSystem() *CUPSSystem {
	return &CUPSSystem{}
}

// ListPrinters 解析 `lpstat -p` 的输出。
// 没有配置任何打印机时 lpstat 返回非零退出码，按空列表处理。
func (s *CUPSSystem) ListPrinters(ctx context.Context) ([]string, error) {
	out, err := exec.CommandContext(ctx, "lpstat", "-p").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "run lpstat")
	}

	var printers []string
	for _, line := range strings.Split(string(out), "\n") {
		// 输出形如 "printer EPSON-TM20 is idle. ..."
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "printer" {
			printers = append(printers, fields[1])
		}
	}
	return printers, nil
}

// Dispatch 通过 `lp -d <printer> <path>` 提交打印任务。
func (s *CUPSSystem) Dispatch(ctx context.Context, printer, path string) error {
	if out, err := exec.CommandContext(ctx, "lp", "-d", printer, path).CombinedOutput(); err != nil {
		return errors.Wrapf(err, "lp failed: %s", strings.TrimSpace(string(out)))
	}
	return nil
}
