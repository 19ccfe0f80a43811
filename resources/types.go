package resources

// ImportRecord describes a discovered resource and the terraform address
// it should be imported under
type ImportRecord struct {
	ResourceType  string // terraform resource type (e.g. aws_subnet)
	ResourceName  string // resource name, possibly indexed (e.g. public[0])
	ResourceID    string // provider-assigned identifier
	ModuleAddress string // module path the record belongs to (e.g. module.vpc)
}

// Address returns the full terraform address of the record
func (r ImportRecord) Address() string {
	return r.ModuleAddress + "." + r.ResourceType + "." + r.ResourceName
}
