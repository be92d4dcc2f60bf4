package progress

import (
	"github.com/prometheus/client_golang/prometheus"
	coreprogress "github.com/yardworks/shunter/core/progress"
	"github.com/yardworks/shunter/infra/logger"
)

// init registers the built-in observer backends.
func init() {
	_ = coreprogress.Register("nop", func(map[string]any) (coreprogress.Observer, error) {
		return coreprogress.Nop{}, nil
	})

	_ = coreprogress.Register("log", func(conf map[string]any) (coreprogress.Observer, error) {
		var c struct {
			Component string `json:"component"`
		}
		if err := coreprogress.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Component == "" {
			c.Component = "progress"
		}
		return NewLogSink(logger.New(c.Component)), nil
	})

	_ = coreprogress.Register("prometheus", func(map[string]any) (coreprogress.Observer, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coreprogress.Register("influx", func(conf map[string]any) (coreprogress.Observer, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := coreprogress.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}
