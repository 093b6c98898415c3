package bleemeo

// AgentType is the kind of agent behind an agent resource, as found in
// the "agent_type" family of fields.
type AgentType string

const (
	AgentTypeAgent             AgentType = "agent"
	AgentTypeAWSAccount        AgentType = "aws_account"
	AgentTypeAWSTrustedAdvisor AgentType = "aws_trusted_advisor"
	AgentTypeAWSDynamoDB       AgentType = "aws_dynamodb"
	AgentTypeAWSEC2            AgentType = "aws_ec2"
	AgentTypeAWSELB            AgentType = "aws_elb"
	AgentTypeAWSRDS            AgentType = "aws_rds"
	AgentTypeMonitor           AgentType = "connection_check"
	AgentTypeSNMP              AgentType = "snmp"
	AgentTypeKubernetes        AgentType = "kubernetes"
	AgentTypeVSphereCluster    AgentType = "vsphere_cluster"
	AgentTypeVSphereHost       AgentType = "vsphere_host"
	AgentTypeVSphereVM         AgentType = "vsphere_vm"
)

// DisconnectionReason is why an agent was last disconnected.
type DisconnectionReason int

const (
	DisconnectionReasonCleanShutdown DisconnectionReason = iota + 1
	DisconnectionReasonAgentTimeout
	DisconnectionReasonAgentAutoUpgrade
	DisconnectionReasonAgentUpgrade
)

// GloutonDiagnostic is the kind of a diagnostic uploaded by an agent.
type GloutonDiagnostic int

const (
	GloutonDiagnosticCrash GloutonDiagnostic = iota
	GloutonDiagnosticOnDemand
)

// Graph is the widget type of a dashboard graph.
type Graph int

const (
	GraphLine Graph = iota
	GraphStack
	GraphPie
	GraphGauge
	GraphAvailabilityTimeline
	GraphNumber
	GraphStatus
	GraphSNMPStatus
	GraphText
	GraphImage
	GraphHeatmapStatus
	GraphBar
)

// ReportPeriod is the recurrence of a scheduled report.
type ReportPeriod int

const (
	ReportPeriodWeekly ReportPeriod = iota
	ReportPeriodMonthly
)

// ReportIncluded is how much of a report is included in the
// notification email.
type ReportIncluded int

const (
	ReportIncludedNone ReportIncluded = iota
	ReportIncludedPartial
	ReportIncludedFull
)

// ConfigItemSource is where an agent configuration item was set.
type ConfigItemSource int

const (
	ConfigItemSourceUnknown ConfigItemSource = iota
	ConfigItemSourceDefault
	ConfigItemSourceFile
	ConfigItemSourceEnv
	ConfigItemSourceAPI
)

// ConfigItemType is the value type of an agent configuration item.
type ConfigItemType int

const (
	ConfigItemTypeAny    ConfigItemType = 0
	ConfigItemTypeInt    ConfigItemType = 1
	ConfigItemTypeFloat  ConfigItemType = 2
	ConfigItemTypeBool   ConfigItemType = 3
	ConfigItemTypeString ConfigItemType = 4

	ConfigItemTypeListStr   ConfigItemType = 10
	ConfigItemTypeListInt   ConfigItemType = 11
	ConfigItemTypeMapStrStr ConfigItemType = 20
	ConfigItemTypeMapStrInt ConfigItemType = 21

	ConfigItemTypeThresholds        ConfigItemType = 30
	ConfigItemTypeServices          ConfigItemType = 31
	ConfigItemTypeNameInstances     ConfigItemType = 32
	ConfigItemTypeBlackboxTargets   ConfigItemType = 33
	ConfigItemTypePrometheusTargets ConfigItemType = 34
	ConfigItemTypeSNMPTargets       ConfigItemType = 35
	ConfigItemTypeLogInputs         ConfigItemType = 36
)

// Status is the threshold state of a metric.
type Status int

const (
	StatusOK Status = iota
	StatusWarning
	StatusCritical
	StatusUnknown
)

// TagType is how a tag was created.
type TagType int

const (
	TagTypeAutomaticAPI        TagType = 0
	TagTypeCreatedByGlouton    TagType = 1
	TagTypeCreatedByFrontend   TagType = 2
	TagTypeAutomaticGlouton    TagType = 3
	TagTypeAutomaticAPIService TagType = 4

	TagTypeNoType TagType = 10
)
