package setup

// File is the YAML setup export this client can import instead of
// running discovery against a live gateway. The layout mirrors how the
// gateway organises things: zones own devices and scenes.
//
//	zones:
//	  - zoneId: hz_1
//	    name: Ground Floor
//	    devices:
//	      - id: "xCo:2752512.2"
//	        name: Kitchen Light
//	        type: DimActuator
//	    scenes:
//	      - id: "1"
//	        name: Movie Night
type File struct {
	Zones []Zone `yaml:"zones"`
}

// Zone is one gateway zone with its devices and scenes.
type Zone struct {
	ID      string   `yaml:"zoneId"`
	Name    string   `yaml:"name"`
	Devices []Device `yaml:"devices"`
	Scenes  []Scene  `yaml:"scenes"`
}

// Device is one device row of a setup file.
type Device struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Scene is one scene row of a setup file.
type Scene struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}
