package discovery

import (
	"fmt"
	"net"

	"github.com/hashicorp/consul/api"
)

// Registration describes the HTTP service announced to Consul.
type Registration struct {
	Name       string
	Port       int
	HealthPath string
	Tags       []string
}

// RegisterService registers the service with an HTTP health check and
// returns a function that deregisters it.
func RegisterService(reg Registration, consulAddr string) (func() error, error) {
	config := api.DefaultConfig()
	config.Address = consulAddr
	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	localIP, err := getOutboundIP()
	if err != nil {
		return nil, err
	}

	asr := newAgentRegistration(reg, localIP)
	if err := client.Agent().ServiceRegister(asr); err != nil {
		return nil, err
	}
	return func() error {
		return client.Agent().ServiceDeregister(asr.ID)
	}, nil
}

func newAgentRegistration(reg Registration, ip string) *api.AgentServiceRegistration {
	health := reg.HealthPath
	if health == "" {
		health = "/api/health"
	}
	return &api.AgentServiceRegistration{
		// service-ip-port must be unique per instance
		ID:      fmt.Sprintf("%s-%s-%d", reg.Name, ip, reg.Port),
		Name:    reg.Name,
		Port:    reg.Port,
		Address: ip,
		Tags:    reg.Tags,
		Check: &api.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d%s", ip, reg.Port, health),
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "30s",
		},
	}
}

// getOutboundIP picks the LAN address; loopback would be useless to peers
// running in other containers.
func getOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}
