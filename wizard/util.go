package wizard

// Clamp snaps value down to a multiple of step and bounds it to [min, max].
// A step below one is treated as one.
func Clamp(value, min, max, step int) int {
	if step < 1 {
		step = 1
	}
	value = value - value%step
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

var defaultUsers = map[string]string{
	"alinux2":    "ec2-user",
	"rhel8":      "ec2-user",
	"rhel9":      "ec2-user",
	"ubuntu1804": "ubuntu",
	"ubuntu2004": "ubuntu",
	"ubuntu2204": "ubuntu",
	"centos7":    "centos",
}

// ClusterDefaultUser returns the login user of the cluster operating system,
// ec2-user when unknown.
func ClusterDefaultUser(os string) string {
	if user, ok := defaultUsers[os]; ok {
		return user
	}
	return "ec2-user"
}
