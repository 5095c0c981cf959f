/*

Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package keeps a single configuration object under the "_c:<package>" key.
Configurations are loaded from the "conf" section of the genesis file by the
Initializer and can be read at any time using Load.

Not being able to get a configuration value is a critical condition for the
application and there is no recovery path for the client. Application must be
terminated and configured correctly.

*/
package gconf
