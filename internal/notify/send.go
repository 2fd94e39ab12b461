// Package notify delivers run reports through Shoutrrr notification URLs.
package notify

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/nicholas-fedor/shoutrrr"
	"github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/sznuper/updavail/internal/config"
)

// Target holds a fully resolved notification target ready to send.
type Target struct {
	ServiceName string
	URL         string
	Message     string
	Params      map[string]string
}

// Wants reports whether a target with the given trigger fires for data.
func Wants(when string, data Data) bool {
	switch when {
	case config.WhenAlways:
		return true
	case config.WhenFailure:
		return data.Failed
	default:
		return !data.Failed && data.Upgradable > 0
	}
}

// ResolveTargets builds the targets that fire for data. Service params are
// merged with per-target params, then every value is rendered as a template.
func ResolveTargets(
	notifyList []config.NotifyTarget,
	services map[string]config.Service,
	data Data,
) ([]Target, error) {
	var targets []Target

	for _, ref := range notifyList {
		if !Wants(ref.Trigger(), data) {
			continue
		}

		svc, ok := services[ref.Service]
		if !ok {
			return nil, fmt.Errorf("unknown service %q", ref.Service)
		}

		merged := make(map[string]string, len(svc.Params)+len(ref.Params))
		maps.Copy(merged, svc.Params)
		maps.Copy(merged, ref.Params)

		for k, v := range merged {
			rendered, err := Render(v, data)
			if err != nil {
				return nil, fmt.Errorf("rendering param %q for %s: %w", k, ref.Service, err)
			}
			merged[k] = rendered
		}

		targets = append(targets, Target{
			ServiceName: ref.Service,
			URL:         svc.URL,
			Message:     data.Message,
			Params:      merged,
		})
	}

	return targets, nil
}

// Send delivers a notification to a single target via Shoutrrr.
func Send(t Target) error {
	sender, err := shoutrrr.CreateSender(t.URL)
	if err != nil {
		return fmt.Errorf("creating sender for %s: %w", t.ServiceName, err)
	}

	params := types.Params(t.Params)
	errs := sender.Send(t.Message, &params)
	for _, e := range errs {
		if e != nil {
			return fmt.Errorf("sending to %s: %w", t.ServiceName, e)
		}
	}

	return nil
}

// Validate checks that a service URL can build a sender without sending.
func Validate(name string, svc config.Service) error {
	if _, err := shoutrrr.CreateSender(svc.URL); err != nil {
		return fmt.Errorf("service %s: %w", name, err)
	}
	return nil
}

// Notifier sends a finished run to every configured target that fires.
type Notifier struct {
	Services map[string]config.Service
	Targets  []config.NotifyTarget
	Logger   *slog.Logger

	// SendFunc delivers one target. Nil means Send.
	SendFunc func(Target) error
}

// Notify resolves and sends targets for data. Every target is attempted;
// the first error is returned after all sends.
func (n *Notifier) Notify(data Data) error {
	if len(n.Targets) == 0 {
		return nil
	}

	targets, err := ResolveTargets(n.Targets, n.Services, data)
	if err != nil {
		return err
	}

	send := n.SendFunc
	if send == nil {
		send = Send
	}

	var first error
	for _, t := range targets {
		n.Logger.Info("sending notification", "service", t.ServiceName)
		if err := send(t); err != nil {
			n.Logger.Error("notify failed", "service", t.ServiceName, "error", err)
			if first == nil {
				first = err
			}
			continue
		}
		n.Logger.Debug("notification sent", "service", t.ServiceName)
	}
	return first
}
