// Package rules inspects the outcome of a posture run.
package rules

import (
	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/pankaj-dahiya-devops/sg-posture/internal/models"
	"github.com/pankaj-dahiya-devops/sg-posture/internal/posture"
)

const (
	sshPort = 22
	rdpPort = 3389
)

// Exposure is a security group that a run left reachable from the whole
// internet on a remote admin port.
type Exposure struct {
	Component string
	Key       string
	Port      int
	CIDR      string
}

// OpenAdminAccess flags every component whose added or replaced ingress rules
// allow SSH (22) or RDP (3389) from 0.0.0.0/0 or ::/0. A rule for all ports
// (-1) counts, as does protocol -1. Each component produces at most one
// Exposure regardless of how many open rules it has.
func OpenAdminAccess(changes []posture.Change) []Exposure {
	seen := make(map[string]bool)
	var out []Exposure
	for _, c := range changes {
		if c.Action == posture.ActionRemoved {
			continue
		}
		p := c.Rule.Permission
		proto := aws.ToString(p.IpProtocol)
		if proto != "tcp" && proto != "6" && proto != models.AllProtocols {
			continue
		}
		port := int(aws.ToInt32(p.FromPort))
		if port != sshPort && port != rdpPort && port != models.AllPorts {
			continue
		}
		cidr := c.Rule.CidrIp()
		if cidr != models.AnyCIDR && cidr != "::/0" {
			continue
		}
		if seen[c.Component] {
			continue // one exposure per security group
		}
		seen[c.Component] = true
		out = append(out, Exposure{Component: c.Component, Key: c.Key, Port: port, CIDR: cidr})
	}
	return out
}
