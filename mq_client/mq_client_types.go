package mq_client

type Exchange struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type Queue struct {
	Name    string `yaml:"name"`
	Durable bool   `yaml:"durable"`
}

type Binding struct {
	Queue      string `yaml:"queue"`
	CleanStart bool   `yaml:"clean_start"`
	Exchange   string `yaml:"exchange"`
}

type Channel struct {
	Prefetch int `yaml:"prefetch"`
}

type MQClientConfig struct {
	Exchange struct {
		Settlement Exchange `yaml:"settlement"`
		Events     Exchange `yaml:"events"`
	}
	Queue struct {
		CommissionSettler Queue `yaml:"commission_settler"`
	}
	Binding struct {
		CommissionSettler Binding `yaml:"commission_settler"`
	}
	Channel struct {
		CommissionSettler Channel `yaml:"commission_settler"`
	}
}
