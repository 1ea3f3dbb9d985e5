package posture

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"gopkg.in/yaml.v3"

	"github.com/pankaj-dahiya-devops/sg-posture/internal/models"
	"github.com/pankaj-dahiya-devops/sg-posture/internal/template"
)

// IngressRule is a desired AWS::EC2::SecurityGroupIngress resource: the
// logical ID it is stored under and the single-range permission it grants.
type IngressRule struct {
	Key        string
	Component  ResolvedComponent
	Permission ec2types.IpPermission
}

// allowAll is the low-level rule: every protocol, every port, any source.
func allowAll(c ResolvedComponent) IngressRule {
	return IngressRule{
		Key:        c.name + "IngressAllowAll",
		Component:  c,
		Permission: permission(models.AllProtocols, models.AllPorts, models.AnyCIDR),
	}
}

// fromPermission builds the medium or high rule for p. The key separates
// rules by protocol and port and, at the high level, by source so that
// several rules for one component do not overwrite each other.
func fromPermission(lvl models.SecurityLevel, p Permission) IngressRule {
	key := fmt.Sprintf("%sIngress_%s_%d", p.Component.name, p.Protocol, p.Port)
	cidr := models.AnyCIDR
	if lvl == models.LevelHigh {
		key += "_" + strings.ReplaceAll(p.Source, ".", "_")
		cidr = p.Source
	}
	return IngressRule{
		Key:        key,
		Component:  p.Component,
		Permission: permission(p.Protocol, p.Port, cidr),
	}
}

func permission(protocol string, port int, cidr string) ec2types.IpPermission {
	return ec2types.IpPermission{
		IpProtocol: aws.String(protocol),
		FromPort:   aws.Int32(int32(port)),
		ToPort:     aws.Int32(int32(port)),
		IpRanges:   []ec2types.IpRange{{CidrIp: aws.String(cidr)}},
	}
}

// CidrIp returns the rule's source range.
func (r IngressRule) CidrIp() string {
	if len(r.Permission.IpRanges) == 0 {
		return ""
	}
	return aws.ToString(r.Permission.IpRanges[0].CidrIp)
}

// Node renders the rule as a template resource.
func (r IngressRule) Node(refs ReferenceStyle) *yaml.Node {
	p := r.Permission
	return template.Map(
		template.Pair{Key: "Type", Value: template.Str(models.TypeSecurityGroupIngress)},
		template.Pair{Key: "Properties", Value: template.Map(
			template.Pair{Key: "GroupId", Value: refs.Node(r.Component.name)},
			template.Pair{Key: "IpProtocol", Value: template.Str(aws.ToString(p.IpProtocol))},
			template.Pair{Key: "FromPort", Value: template.Int(int(aws.ToInt32(p.FromPort)))},
			template.Pair{Key: "ToPort", Value: template.Int(int(aws.ToInt32(p.ToPort)))},
			template.Pair{Key: "CidrIp", Value: template.Str(r.CidrIp())},
		)},
	)
}
