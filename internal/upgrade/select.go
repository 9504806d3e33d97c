package upgrade

import "github.com/conn-castle/rancher-client/internal/rancher"

// SelectServices narrows available to the requested names.
// An empty request selects everything. Otherwise every requested name must
// exist; the ones that do not are reported together, in request order and
// without repeats, as *ServiceNotFoundError. The selection keeps the order
// of available.
func SelectServices(requested []string, available []rancher.Service) ([]rancher.Service, error) {
	if len(requested) == 0 {
		return append([]rancher.Service(nil), available...), nil
	}

	known := make(map[string]bool, len(available))
	for _, svc := range available {
		known[svc.Name] = true
	}

	wanted := make(map[string]bool, len(requested))
	var missing []string
	for _, name := range requested {
		if wanted[name] {
			continue
		}
		wanted[name] = true
		if !known[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &ServiceNotFoundError{Missing: missing}
	}

	selected := make([]rancher.Service, 0, len(wanted))
	for _, svc := range available {
		if wanted[svc.Name] {
			selected = append(selected, svc)
		}
	}
	return selected, nil
}
