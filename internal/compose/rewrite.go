package compose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/conn-castle/rancher-client/internal/logging"
	"github.com/conn-castle/rancher-client/internal/messages"
)

// Change records one rewritten image value.
type Change struct {
	Service string
	From    string
	To      Image
}

// Skip records a selected service whose image was left alone.
type Skip struct {
	Service string
	Reason  string
}

// Rewrite is the outcome of RewriteTags.
type Rewrite struct {
	Changes []Change
	Skipped []Skip
}

// Images returns the new image references in service order.
func (r Rewrite) Images() []Image {
	images := make([]Image, 0, len(r.Changes))
	for _, c := range r.Changes {
		images = append(images, c.To)
	}
	return images
}

// RewriteTags points the image of every listed service at tag, in memory.
// Services that are not declared, declare no image, or use an image
// without an explicit tag are skipped; nothing is written until Save.
func (d *Definition) RewriteTags(logger *log.Logger, services []string, tag string) (Rewrite, error) {
	logger = logging.OrDiscard(logger)
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return Rewrite{}, errors.New(messages.ComposeTagRequired)
	}
	if !ValidTag(tag) {
		return Rewrite{}, fmt.Errorf(messages.ComposeInvalidTagFmt, tag)
	}

	var result Rewrite
	for _, service := range services {
		if lookup(d.services, service) == nil {
			logger.Debug("skipping service", "service", service, "reason", messages.ComposeSkipNoService)
			result.Skipped = append(result.Skipped, Skip{Service: service, Reason: messages.ComposeSkipNoService})
			continue
		}
		node := d.imageNode(service)
		if node == nil || node.Value == "" {
			logger.Debug("skipping service", "service", service, "reason", messages.ComposeSkipNoImage)
			result.Skipped = append(result.Skipped, Skip{Service: service, Reason: messages.ComposeSkipNoImage})
			continue
		}
		current, err := ParseImage(node.Value)
		literal := err != nil
		if literal {
			logger.Debug("image is not a plain reference, swapping its tag literally", "service", service, "image", node.Value, "err", err)
			current = splitImage(node.Value)
		}
		if !current.HasTag() {
			logger.Debug("skipping service", "service", service, "image", node.Value, "reason", messages.ComposeSkipUntagged)
			result.Skipped = append(result.Skipped, Skip{Service: service, Reason: messages.ComposeSkipUntagged})
			continue
		}
		next := Image{Repository: current.Repository, Tag: tag}
		if !literal {
			if next, err = current.WithTag(tag); err != nil {
				return Rewrite{}, fmt.Errorf(messages.ComposeApplyTagFmt, tag, service, err)
			}
		}
		logger.Debug("rewriting image", "service", service, "from", node.Value, "to", next.String())
		result.Changes = append(result.Changes, Change{Service: service, From: node.Value, To: next})
		node.Value = next.String()
	}
	return result, nil
}
